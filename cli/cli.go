// Package cli implements the tag and score commands. Both read plain text
// files and write their result to the given writer; diagnostics go to the
// component loggers.
package cli

import (
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/eval"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/types"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

var ErrUsage = errors.New("usage error")

// RunTag implements `tag <training_file> <test_file> [--enhanced] [--tagged-input]`.
// Without --tagged-input every test line is taken whole as the word.
func RunTag(ctx context.Context, args []string, stdout io.Writer) error {
	tagLogger := logger.NewLogger("Tagger")

	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	enhanced := fs.Bool("enhanced", false, "apply the unknown-word rules")
	shortEnhanced := fs.Bool("E", false, "same as --enhanced")
	workers := fs.Int("workers", 0, "number of tagging goroutines")
	taggedInput := fs.Bool("tagged-input", false, "test lines carry a trailing /tag to ignore")
	encoding := fs.String("encoding", "", "input encoding (utf-8 or latin1)")
	profilePath := fs.String("profile", "", "YAML profile with tagging options")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: tag <training_file> <test_file> [--enhanced] [--tagged-input] "+
			"(test lines are read whole unless --tagged-input strips a trailing /tag)", ErrUsage)
	}
	trainingPath, testPath := positional[0], positional[1]

	opts, err := resolveOptions(*profilePath)
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if *enhanced || *shortEnhanced {
		opts.Mode = pos.ModeEnhanced
	}
	if set["workers"] && *workers > 0 {
		opts.Workers = *workers
	}
	if set["tagged-input"] {
		opts.TaggedInput = *taggedInput
	}
	if set["encoding"] {
		if opts.Encoding, err = corpus.ParseEncoding(*encoding); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}

	training, err := corpus.LoadTokens(trainingPath, opts.Encoding)
	if err != nil {
		return fmt.Errorf("read training data: %w", err)
	}
	table := pos.BuildTable(training)
	tagLogger.Info().
		Str("path", trainingPath).
		Int("tokens", len(training)).
		Int("words", table.Len()).
		Msg("Built frequency table")

	words, err := corpus.LoadWords(testPath, opts.Encoding, opts.TaggedInput)
	if err != nil {
		return fmt.Errorf("read test data: %w", err)
	}
	tags, err := pos.TagAll(ctx, words, table, opts.Mode, opts.Workers)
	if err != nil {
		return fmt.Errorf("tag test data: %w", err)
	}
	tagLogger.Info().
		Str("path", testPath).
		Str("mode", opts.Mode.String()).
		Int("workers", opts.Workers).
		Int("words", len(words)).
		Msg("Tagged test data")

	return corpus.WriteTokens(stdout, words, tags)
}

// RunScore implements `score <tagged_test_file> <key_file>`.
func RunScore(args []string, stdout io.Writer) error {
	scoreLogger := logger.NewLogger("Scorer")

	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	encoding := fs.String("encoding", "", "input encoding (utf-8 or latin1)")
	profilePath := fs.String("profile", "", "YAML profile with reading options")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: score <tagged_test_file> <key_file>", ErrUsage)
	}
	taggedPath, keyPath := positional[0], positional[1]

	opts, err := resolveOptions(*profilePath)
	if err != nil {
		return err
	}
	if setFlags(fs)["encoding"] {
		if opts.Encoding, err = corpus.ParseEncoding(*encoding); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}

	predicted, err := corpus.LoadTags(taggedPath, opts.Encoding)
	if err != nil {
		return fmt.Errorf("read tagged test data: %w", err)
	}
	gold, err := corpus.LoadTags(keyPath, opts.Encoding)
	if err != nil {
		return fmt.Errorf("read key data: %w", err)
	}
	if predicted.Len != gold.Len {
		return &eval.LengthMismatchError{Predicted: predicted.Len, Gold: gold.Len}
	}

	res, err := eval.Score(predicted.Tags, gold.Tags)
	if err != nil {
		return err
	}
	scoreLogger.Info().
		Int("tags", res.Total).
		Int("correct", res.CorrectTotal).
		Float64("accuracy", res.Accuracy).
		Msg("Scored tagged test data")
	return eval.WriteReport(stdout, res)
}

func resolveOptions(profilePath string) (types.Options, error) {
	cfg, err := types.ReadConfig()
	if err != nil {
		return types.Options{}, fmt.Errorf("read environment: %w", err)
	}
	if profilePath == "" {
		profilePath = cfg.ProfilePath
	}
	if profilePath == "" {
		return cfg.Options(nil)
	}
	profile, err := types.LoadProfile(profilePath)
	if err != nil {
		return types.Options{}, err
	}
	return cfg.Options(&profile)
}

// parseInterspersed lets flags appear before, between or after positional
// arguments, e.g. `tag train.txt test.txt --enhanced`.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
