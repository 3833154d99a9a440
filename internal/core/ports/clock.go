package ports

import "time"

//go:generate go run go.uber.org/mock/mockgen -source=clock.go -destination=mocks/mock_clock.go -package=mocks

// Clock abstracts wall-clock time so switch-duration metrics and
// switch_start_time recording can be tested deterministically.
type Clock interface {
	Now() time.Time
}
