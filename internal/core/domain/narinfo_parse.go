package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ParseNarinfo decodes the line-oriented "Key: Value" narinfo text format
// described in §6: StorePath, URL, Compression, NarHash, NarSize, FileHash,
// FileSize, Deriver, System, References (space-separated), Sig (repeatable).
// Unrecognised keys are ignored so future cache additions don't break parsing.
func ParseNarinfo(text []byte) (*Narinfo, error) {
	n := &Narinfo{}

	for _, line := range strings.Split(string(text), "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, zerr.With(zerr.New("malformed narinfo line"), "line", line)
		}
		value = strings.TrimPrefix(value, " ")

		switch key {
		case "StorePath":
			n.StorePath = value
		case "URL":
			n.URL = value
		case "Compression":
			n.Compression = value
		case "NarHash":
			n.NarHash = value
		case "NarSize":
			size, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, zerr.Wrap(err, "parsing NarSize")
			}
			n.NarSize = size
		case "FileHash":
			n.FileHash = value
		case "FileSize":
			size, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, zerr.Wrap(err, "parsing FileSize")
			}
			n.FileSize = size
		case "Deriver":
			n.Deriver = value
		case "System":
			n.System = value
		case "References":
			if value != "" {
				n.References = strings.Split(value, " ")
			}
		case "Sig":
			sigName, sigB64, ok := strings.Cut(value, ":")
			if !ok {
				return nil, zerr.With(zerr.New("malformed Sig entry"), "value", value)
			}
			n.Signatures = append(n.Signatures, Signature{KeyName: sigName, SigB64: sigB64})
		}
	}

	if n.StorePath == "" {
		return nil, zerr.New("narinfo missing StorePath")
	}

	return n, nil
}

// MarshalNarinfo renders a Narinfo back into its line-oriented text form, in
// the order StorePath, URL, Compression, NarHash, NarSize, FileHash and
// FileSize (when FileHash is set), References, Deriver and System (each when
// set), then one Sig line per signature. Used by tests.
func MarshalNarinfo(n *Narinfo) []byte {
	var b strings.Builder

	writeField := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeField("StorePath", n.StorePath)
	writeField("URL", n.URL)
	writeField("Compression", n.Compression)
	writeField("NarHash", n.NarHash)
	writeField("NarSize", strconv.FormatUint(n.NarSize, 10))
	if n.FileHash != "" {
		writeField("FileHash", n.FileHash)
		writeField("FileSize", strconv.FormatUint(n.FileSize, 10))
	}
	writeField("References", strings.Join(n.References, " "))
	if n.Deriver != "" {
		writeField("Deriver", n.Deriver)
	}
	if n.System != "" {
		writeField("System", n.System)
	}
	for _, sig := range n.Signatures {
		writeField("Sig", sig.String())
	}

	return []byte(b.String())
}
