// Command claudeos boots the kernel on a simulated PC and connects the VGA
// text screen and the PS/2 keyboard to the host terminal.
package main

import (
	"bytes"
	"claudeos/kernel/hal/pc"
	"claudeos/kernel/kmain"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type options struct {
	cmdLine  string
	overlay  string
	logLevel string
	noRaw    bool
}

func main() {
	if err := runTool(); err != nil {
		logrus.WithError(err).Fatal("[claudeos] error")
	}
}

func runTool() error {
	var opts options
	flag.StringVar(&opts.cmdLine, "cmdline", "", "the kernel command line (e.g. \"hz=100 quiet\")")
	flag.StringVar(&opts.overlay, "overlay", "", "a host directory to import into /mnt at boot")
	flag.StringVar(&opts.logLevel, "log-level", "info", "the host log level (debug, info, warn or error)")
	flag.BoolVar(&opts.noRaw, "no-raw", false, "do not switch the host terminal to raw mode")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "claudeos: boot ClaudeOS on a simulated PC\n\n")
		fmt.Fprint(os.Stderr, "Usage: claudeos [options]\n")
		fmt.Fprint(os.Stderr, "Press Ctrl-] to quit.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	var overlay fs.FS
	if opts.overlay != "" {
		if st, err := os.Stat(opts.overlay); err != nil {
			return fmt.Errorf("overlay: %w", err)
		} else if !st.IsDir() {
			return fmt.Errorf("overlay: %s is not a directory", opts.overlay)
		}
		overlay = os.DirFS(opts.overlay)
	}

	stdin := int(os.Stdin.Fd())
	if !opts.noRaw && isTerminal(stdin) {
		restore, err := makeRaw(stdin)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer restore()

		log.SetOutput(&crlfWriter{w: os.Stderr})
		log.Debug("host terminal switched to raw mode")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	var (
		screen    = newRenderer(os.Stdout)
		target    atomic.Pointer[pc.Board]
		inputDone = make(chan struct{})
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pumpInput(ctx, stdin, os.Stdin, &target, quit, inputDone)
	})
	g.Go(func() error {
		defer quit()
		return runMachine(ctx, log, opts.cmdLine, overlay, screen, &target, inputDone)
	})

	err = g.Wait()
	io.WriteString(os.Stdout, "\x1b[0m\r\n")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runMachine boots a new machine every time the previous one resets. It
// returns once a machine halts or powers off and either ctx is done or the
// input has ended.
func runMachine(ctx context.Context, log logrus.FieldLogger, cmdLine string, overlay fs.FS, screen *renderer, target *atomic.Pointer[pc.Board], inputDone <-chan struct{}) error {
	for boot := 1; ; boot++ {
		b := pc.New(pc.Config{CmdLine: cmdLine, RealTime: true})
		b.SetIdleHook(func() {
			if err := screen.Render(b); err != nil {
				log.WithError(err).Warn("screen update failed")
			}
		})
		target.Store(b)

		cfg := kmain.ParseConfig(b.CmdLine())
		cfg.Overlay = overlay

		log.WithFields(logrus.Fields{"boot": boot, "cmdline": cmdLine, "hz": cfg.Hz}).Debug("starting machine")
		screen.Invalidate()

		err := b.Run(ctx, func() { kmain.Main(b, cfg) })
		screen.Render(b)
		if err != nil {
			return err
		}

		if b.Reason() == pc.Reset {
			log.WithField("boot", boot).Info("machine reset; rebooting")
			continue
		}

		log.WithFields(logrus.Fields{
			"reason":      b.Reason(),
			"post_writes": b.POSTWrites(),
		}).Info("machine stopped; press Ctrl-] to quit")
		screen.Invalidate()

		select {
		case <-ctx.Done():
		case <-inputDone:
		}
		return nil
	}
}

// crlfWriter translates line feeds for a terminal in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (cw *crlfWriter) Write(p []byte) (int, error) {
	if _, err := cw.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
