package pipeline

import (
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/eval"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/utils"
	"bytes"
	"context"
	"fmt"
	"github.com/rs/zerolog"
)

type Pipeline func(ctx context.Context, request Request) <-chan Response

func New() Pipeline {
	pplnLogger := logger.NewLogger("POS pipeline")

	return func(ctx context.Context, request Request) <-chan Response {
		responseChan := make(chan Response, 1)
		reqLogger := pplnLogger.With().
			Str("tid", request.Tid).
			Str("kind", string(request.Kind)).
			Logger()

		go func() {
			defer close(responseChan)
			var response Response
			func() {
				defer utils.RecoverWithError(&response.Err)
				switch request.Kind {
				case KindTag:
					response = tag(ctx, request, reqLogger)
				case KindScore:
					response = score(request, reqLogger)
				default:
					response.Err = fmt.Errorf("unknown pipeline kind %q", request.Kind)
				}
			}()
			if response.Err != nil {
				reqLogger.Error().Err(response.Err).Msg("Pipeline failed")
			}
			responseChan <- response
		}()
		return responseChan
	}
}

// Train builds a frequency table from the raw bytes of a training corpus.
func Train(training []byte, encoding corpus.Encoding) (*pos.FrequencyTable, error) {
	tokens, err := corpus.ReadTokens(corpus.NewReader(bytes.NewReader(training), encoding))
	if err != nil {
		return nil, fmt.Errorf("read training data: %w", err)
	}
	return pos.BuildTable(tokens), nil
}

func tag(ctx context.Context, request Request, log zerolog.Logger) Response {
	if request.Table == nil {
		return Response{Err: fmt.Errorf("tag request %s has no frequency table", request.Tid)}
	}
	opts := request.Options
	words, err := corpus.ReadWords(corpus.NewReader(bytes.NewReader(request.Test), opts.Encoding), opts.TaggedInput)
	if err != nil {
		return Response{Err: fmt.Errorf("read test data: %w", err)}
	}
	tags, err := pos.TagAll(ctx, words, request.Table, opts.Mode, opts.Workers)
	if err != nil {
		return Response{Err: fmt.Errorf("tag test data: %w", err)}
	}

	var out bytes.Buffer
	if err := corpus.WriteTokens(&out, words, tags); err != nil {
		return Response{Err: err}
	}
	log.Info().
		Str("mode", opts.Mode.String()).
		Int("words", len(words)).
		Msg("Tagged test data")
	return Response{Output: out.Bytes()}
}

func score(request Request, log zerolog.Logger) Response {
	enc := request.Options.Encoding
	predicted, err := corpus.ReadTags(corpus.NewReader(bytes.NewReader(request.Tagged), enc))
	if err != nil {
		return Response{Err: fmt.Errorf("read tagged test data: %w", err)}
	}
	gold, err := corpus.ReadTags(corpus.NewReader(bytes.NewReader(request.Key), enc))
	if err != nil {
		return Response{Err: fmt.Errorf("read key data: %w", err)}
	}

	res, err := eval.Score(predicted.Tags, gold.Tags)
	if err != nil {
		return Response{Err: err}
	}
	var out bytes.Buffer
	if err := eval.WriteReport(&out, res); err != nil {
		return Response{Err: err}
	}
	log.Info().
		Int("tags", res.Total).
		Float64("accuracy", res.Accuracy).
		Msg("Scored tagged test data")
	return Response{Output: out.Bytes(), Result: res}
}
