package geoloc

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
)

// NmeaProvider reads RMC sentences from a TCP stream, e.g. a gpsd feed or
// an AIS receiver, and turns them into samples.
type NmeaProvider struct {
	Addr  string
	Debug bool
}

func sampleFromRMC(rmc nmea.RMC) Sample {
	fixTime := time.Date(
		2000+rmc.Date.YY, time.Month(rmc.Date.MM), rmc.Date.DD,
		rmc.Time.Hour, rmc.Time.Minute, rmc.Time.Second,
		rmc.Time.Millisecond*int(time.Millisecond), time.UTC)

	return Sample{
		Lat:        rmc.Latitude,
		Lon:        rmc.Longitude,
		SpeedMs:    rmc.Speed / MetersPerSecondToKnots,
		HasSpeed:   true,
		Heading:    rmc.Course,
		HasHeading: true,
		FixTime:    fixTime,
	}
}

func (p *NmeaProvider) Watch(opts WatchOptions, onSample func(Sample), onErr func(error)) (stop func()) {
	done := make(chan struct{})

	go func() {
		conn, err := net.DialTimeout("tcp", p.Addr, opts.Timeout)
		if err != nil {
			onErr(fmt.Errorf("%w: dial %s failed (%v)", ErrUnavailable, p.Addr, err))
			return
		}
		defer conn.Close()

		go func() {
			<-done
			conn.Close()
		}()

		// A fix timer per the watch timeout: a live stream that stops
		// yielding valid fixes surfaces as a timeout, not silence.
		fixTimer := time.NewTimer(opts.Timeout)
		defer fixTimer.Stop()
		go func() {
			for {
				select {
				case <-done:
					return
				case <-fixTimer.C:
					onErr(ErrTimeout)
				}
			}
		}()

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			sentence, err := nmea.Parse(line)
			if err != nil {
				if p.Debug {
					log.Printf("nmea: skipping unparsable sentence %q (%v)", line, err)
				}
				continue
			}

			rmc, ok := sentence.(nmea.RMC)
			if !ok || rmc.Validity != nmea.ValidRMC {
				continue
			}

			fixTimer.Reset(opts.Timeout)
			onSample(sampleFromRMC(rmc))
		}

		select {
		case <-done:
		default:
			onErr(fmt.Errorf("%w: stream from %s ended (%v)", ErrUnavailable, p.Addr, scanner.Err()))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
	}
}

func (p *NmeaProvider) Current(ctx context.Context, opts WatchOptions) (Sample, error) {
	var d net.Dialer
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		if ctx.Err() != nil {
			return Sample{}, ErrTimeout
		}
		return Sample{}, fmt.Errorf("%w: dial %s failed (%v)", ErrUnavailable, p.Addr, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetReadDeadline(deadline)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		sentence, err := nmea.Parse(scanner.Text())
		if err != nil {
			continue
		}

		rmc, ok := sentence.(nmea.RMC)
		if !ok || rmc.Validity != nmea.ValidRMC {
			continue
		}

		return sampleFromRMC(rmc), nil
	}

	if ne, ok := scanner.Err().(net.Error); ok && ne.Timeout() {
		return Sample{}, ErrTimeout
	}
	return Sample{}, fmt.Errorf("%w: no valid fix from %s (%v)", ErrUnavailable, p.Addr, scanner.Err())
}
