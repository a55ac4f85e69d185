package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tonimelisma/phototransfer/internal/locale"
	"github.com/tonimelisma/phototransfer/internal/organizer"
	"github.com/tonimelisma/phototransfer/internal/session"
)

// render consumes a session's events until the final one, drawing a
// progress bar on barOut when showBar is set.
func render(events <-chan session.Event, stdout, barOut io.Writer, msgs locale.Messages, showBar bool) (organizer.Result, error) {
	var bar *progressbar.ProgressBar

	for ev := range events {
		if ev.Final() {
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(barOut)
			}
			if ev.Err != nil {
				return organizer.Result{}, ev.Err
			}
			return *ev.Result, nil
		}

		p := ev.Progress
		if p.Done == 0 {
			fmt.Fprintf(stdout, msgs.Found+"\n", p.Total)
			if showBar {
				bar = progressbar.NewOptions(p.Total,
					progressbar.OptionSetWriter(barOut),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(30),
					progressbar.OptionThrottle(100*time.Millisecond),
				)
			}
			continue
		}
		switch {
		case bar != nil:
			_ = bar.Set(p.Done)
		case p.Done%10 == 0 || p.Done == p.Total:
			fmt.Fprintf(stdout, msgs.Progress+"\n", p.Done, p.Total)
		}
	}

	return organizer.Result{}, errors.New("run ended without a result")
}

func summary(r organizer.Result, msgs locale.Messages) string {
	var line string
	switch {
	case r.Errors == 0 && r.SkippedDuplicates == 0:
		line = fmt.Sprintf(msgs.Done, r.Processed)
	case r.Errors == 0:
		line = fmt.Sprintf(msgs.DoneWithDuplicates, r.Processed, r.SkippedDuplicates)
	default:
		line = fmt.Sprintf(msgs.DoneWithErrors, r.Processed, r.SkippedDuplicates, r.Errors)
	}
	return line + "\n" + fmt.Sprintf(msgs.Destination, r.DestinationRoot)
}

func preconditionMessage(err error, msgs locale.Messages) string {
	switch {
	case errors.Is(err, organizer.ErrMissingSource), errors.Is(err, organizer.ErrMissingDestination):
		return msgs.MissingFolders
	case errors.Is(err, organizer.ErrSourceNotFound):
		return msgs.SourceNotFound
	case errors.Is(err, organizer.ErrNoPhotos):
		return msgs.NoPhotos
	case errors.Is(err, session.ErrRunInProgress):
		return msgs.RunInProgress
	}
	return err.Error()
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// formatBytes renders n in the largest binary unit it reaches, with one
// decimal above bytes.
func formatBytes(n int64) string {
	v, i := float64(n), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[i])
}

// formatElapsed renders d compactly, e.g. "1d2h1m" or "350ms" for runs
// shorter than a second. Zero components are left out.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	var b strings.Builder
	rest := d.Truncate(time.Second)
	for _, u := range []struct {
		unit   time.Duration
		suffix string
	}{{24 * time.Hour, "d"}, {time.Hour, "h"}, {time.Minute, "m"}, {time.Second, "s"}} {
		if n := rest / u.unit; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			rest -= n * u.unit
		}
	}
	return b.String()
}

// formatRate is the average transfer speed, or "" when nothing measurable
// was moved.
func formatRate(n int64, d time.Duration) string {
	if n == 0 || d <= 0 {
		return ""
	}
	return formatBytes(int64(float64(n)/d.Seconds())) + "/s"
}
