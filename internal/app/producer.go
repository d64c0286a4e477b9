// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/service"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/internal/validators"
	"github.com/MKhiriev/go-promise-sync/models"
)

// Usage lists the producer commands.
const Usage = `usage: producer [config flags] <command> [command flags]

commands:
  write    merge an update into the shared snapshot
           -promises-file <path|->  JSON array of promise records
           -user-id <id>            -user-email <email>
           -auth <true|false>
  signout  clear the snapshot from every backend
  show     print the snapshot consumers will see
  doctor   check container access and every local source
  version  print build information`

// Producer runs the producer commands.
type Producer struct {
	services  *service.ProducerServices
	file      *store.FileStore
	validator validators.Validator
	buildInfo models.AppBuildInfo

	in     io.Reader
	out    io.Writer
	logger *logger.Logger
}

// NewProducer returns a Producer writing command output to out and reading
// piped promise lists from in.
func NewProducer(services *service.ProducerServices, file *store.FileStore, buildInfo models.AppBuildInfo, in io.Reader, out io.Writer, log *logger.Logger) *Producer {
	return &Producer{
		services:  services,
		file:      file,
		validator: validators.NewPromiseValidator(),
		buildInfo: buildInfo,
		in:        in,
		out:       out,
		logger:    log,
	}
}

// Run executes the command named by args[0].
func (p *Producer) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrNoCommand
	}

	switch args[0] {
	case "write":
		return p.write(ctx, args[1:])
	case "signout":
		return p.signOut(ctx)
	case "show":
		return p.show(ctx)
	case "doctor":
		return p.doctor(ctx)
	case "version":
		return p.version()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

func (p *Producer) write(ctx context.Context, args []string) error {
	partial, err := p.parseWrite(args)
	if err != nil {
		return err
	}
	if err = p.validator.Validate(ctx, partial); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	snapshot, err := p.services.Writer.Write(ctx, partial)
	switch {
	case errors.Is(err, service.ErrInvariantViolation):
		fmt.Fprintln(p.out, MsgRejectedDowngrade)
		return err
	case err != nil && snapshot.Version == 0:
		return err
	case err != nil:
		fmt.Fprintf(p.out, "%s: version %d\n", MsgWrittenPartially, snapshot.Version)
		p.logger.Warn().Err(err).Str("func", "Producer.write").Msg("partial write")
		return nil
	}

	fmt.Fprintf(p.out, "%s: version %d, %d promises, authenticated=%t\n",
		MsgWritten, snapshot.Version, snapshot.Total(), snapshot.IsAuthenticated)
	return nil
}

// parseWrite turns the write flags into a partial update. Flags that are not
// given stay absent, so the stored values are kept.
func (p *Producer) parseWrite(args []string) (models.PartialSnapshot, error) {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	promisesFile := fs.String("promises-file", "", "JSON array of promise records, - for stdin")
	userID := fs.String("user-id", "", "user id")
	userEmail := fs.String("user-email", "", "user email")
	auth := fs.String("auth", "", "true or false")

	if err := fs.Parse(args); err != nil {
		return models.PartialSnapshot{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var partial models.PartialSnapshot
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch f.Name {
		case "promises-file":
			partial.Promises, parseErr = p.readPromises(*promisesFile)
		case "user-id":
			partial.UserID = models.StringPtr(strings.TrimSpace(*userID))
		case "user-email":
			partial.UserEmail = models.StringPtr(strings.TrimSpace(*userEmail))
		case "auth":
			b, err := strconv.ParseBool(*auth)
			if err != nil {
				parseErr = fmt.Errorf("%w: -auth: %w", ErrInvalidInput, err)
				return
			}
			partial.IsAuthenticated = models.BoolPtr(b)
		}
	})
	if parseErr != nil {
		return models.PartialSnapshot{}, parseErr
	}
	return partial, nil
}

func (p *Producer) readPromises(path string) ([]models.PromiseRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(p.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read promises: %w", ErrInvalidInput, err)
	}

	promises, err := codec.DecodePromises(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return promises, nil
}

func (p *Producer) signOut(ctx context.Context) error {
	if err := p.services.Writer.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, MsgSignedOut)
	return nil
}

func (p *Producer) show(ctx context.Context) error {
	snapshot, source := p.services.Loader.LoadEntry(ctx)
	data, err := codec.Encode(snapshot)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "source: %s\n", source)
	fmt.Fprintf(p.out, "promises: %d total, %d completed, %d pending (%d%%)\n",
		snapshot.Total(), snapshot.Completed(), snapshot.Pending(), snapshot.CompletionPercentage())
	fmt.Fprintln(p.out, string(data))
	return nil
}

func (p *Producer) doctor(ctx context.Context) error {
	failed := false

	if err := p.file.CheckAccess(); err != nil {
		failed = true
		fmt.Fprintf(p.out, "%s: %s: %v\n", MsgAccessFailed, p.file.Path(), err)
	} else {
		fmt.Fprintf(p.out, "%s: %s\n", MsgAccessOK, p.file.Path())
	}

	reports, cleared := p.services.Loader.Probe(ctx)
	if cleared {
		fmt.Fprintln(p.out, MsgClearedMarkerSet)
	}

	for _, r := range reports {
		var status string
		switch {
		case r.Skipped:
			status = MsgSourceSkipped
		case errors.Is(r.Err, store.ErrNotFound):
			status = MsgSourceEmpty
		case r.Err != nil:
			status = "error: " + r.Err.Error()
			if !errors.Is(r.Err, codec.ErrDecode) {
				failed = true
			}
		default:
			status = fmt.Sprintf("ok: version %d, %d promises, authenticated=%t",
				r.Snapshot.Version, r.Snapshot.Total(), r.Snapshot.IsAuthenticated)
		}
		fmt.Fprintf(p.out, "%-16s %-8s %s\n", r.Name, r.Elapsed.Round(time.Millisecond), status)
	}

	if failed {
		return ErrDoctorFailed
	}
	return nil
}

func (p *Producer) version() error {
	fmt.Fprintf(p.out, "Build version: %s\n", valueOrNA(p.buildInfo.BuildVersion()))
	fmt.Fprintf(p.out, "Build date: %s\n", valueOrNA(p.buildInfo.BuildDate()))
	fmt.Fprintf(p.out, "Build commit: %s\n", valueOrNA(p.buildInfo.BuildCommit()))
	return nil
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
