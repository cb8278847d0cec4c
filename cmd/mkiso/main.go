// Command mkiso exports the ClaudeOS root filesystem, as seeded at boot, to
// an ISO9660 image. Files found in an optional overlay directory are added
// under /mnt, the same way the kernel imports them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"claudeos/kernel"

	"github.com/sirupsen/logrus"
)

type options struct {
	output  string
	overlay string
	label   string
	watch   bool
}

func defaultLabel() string {
	return fmt.Sprintf("CLAUDEOS_%d_%d", kernel.Version.Major(), kernel.Version.Minor())
}

func main() {
	if err := runTool(); err != nil {
		logrus.WithError(err).Fatal("[mkiso] error")
	}
}

func runTool() error {
	var opts options
	flag.StringVar(&opts.output, "o", "claudeos.iso", "the image file to write")
	flag.StringVar(&opts.overlay, "overlay", "", "a host directory to add under /mnt")
	flag.StringVar(&opts.label, "label", defaultLabel(), "the volume identifier")
	flag.BoolVar(&opts.watch, "watch", false, "rebuild the image whenever the overlay directory changes")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "mkiso: export the ClaudeOS root filesystem to an ISO9660 image\n\n")
		fmt.Fprint(os.Stderr, "Usage: mkiso [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if opts.watch && opts.overlay == "" {
		return errors.New("-watch requires -overlay")
	}

	log := logrus.New()

	if err := buildImage(log, opts); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := watchOverlay(ctx, log, opts.overlay, func() error {
		return buildImage(log, opts)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
