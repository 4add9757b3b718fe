package driver

import "time"

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

func WithFlushTimeout(timeout time.Duration) DriverOpt {
	return func(d *Driver) {
		d.flushTimeout = timeout
	}
}
