package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"gdc/content"
	"gdc/source"
	"gdc/state"
)

// Run is the action of export command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no document has been specified")
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := env.LoadCustomStyle(); err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process exports single document independently of CLI framework. "src" is
// a document id, Docs URL or path to saved documents.get response, "dst" is
// the directory under which output directory is created.
func process(ctx context.Context, src, dst string, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	var outputDir string

	log.Info("Export starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: image decoders are not always mature enough, we want clean
		// error instead of crash.
		if r := recover(); r != nil {
			log.Error("Export ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputDir), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("export panic: %v", r)
		} else if rerr == nil {
			log.Info("Export completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputDir))
		}
	}(time.Now())

	docs, id, err := source.Open(ctx, src, &env.Cfg.Source, log.Named("source"))
	if err != nil {
		return fmt.Errorf("unable to open document source: %w", err)
	}
	doc, raw, err := docs.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to fetch document: %w", err)
	}

	c, err := content.Prepare(ctx, doc, raw, src, log)
	if err != nil {
		return fmt.Errorf("unable to prepare document (%s): %w", src, err)
	}
	defer c.Cleanup(ctx)

	outputDir = buildOutputPath(c, dst, env)

	// Check if output already exists
	page := filepath.Join(outputDir, "index.html")
	if _, err := os.Stat(page); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output already exists: %s", page)
		}
		log.Warn("Overwriting existing output", zap.String("dir", outputDir))
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := writeOutput(ctx, c, outputDir, docs.Client(), log); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	// Store export result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%s", c.ID()), outputDir)
	return nil
}
