package api

import (
	"text2phenotype.com/postag/eval"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/types"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"io"
	"net/http"
	"strconv"
)

// maxBodySize bounds request bodies read by the handlers.
const maxBodySize = 32 << 20

// Request serves tagging against one frequency table trained at start-up.
// Options resolve like the command line: query parameters, then the named
// profile, then Config.
type Request struct {
	Pipeline pipeline.Pipeline
	Table    *pos.FrequencyTable
	Config   types.Config
	Profiles map[string]types.Profile
}

type ScoreRequest struct {
	Predicted []string `json:"predicted"`
	Gold      []string `json:"gold"`
}

type PairCount struct {
	Predicted string `json:"predicted"`
	Gold      string `json:"gold"`
	Count     int    `json:"count"`
}

type ScoreResponse struct {
	Accuracy       float64     `json:"accuracy"`
	Correct        int         `json:"correct"`
	Total          int         `json:"total"`
	CorrectPairs   []PairCount `json:"correct_pairs"`
	IncorrectPairs []PairCount `json:"incorrect_pairs"`
}

func (req *Request) Register(mux *http.ServeMux) {
	mux.HandleFunc("/tag", req.TagWords)
	mux.HandleFunc("/score", req.ScoreTags)
}

// TagWords tags the newline separated words of the body and answers with
// word/tag lines. Query parameters: profile=<name>, mode=basic|enhanced,
// tagged=true. mode and tagged override the profile.
func (req *Request) TagWords(w http.ResponseWriter, r *http.Request) {
	logger := makeRequestLogger(r)
	body, ok := readBody(w, r, logger)
	if !ok {
		return
	}

	opts, err := req.tagOptions(r)
	if err != nil {
		fail(w, logger, http.StatusBadRequest, err)
		return
	}

	request := pipeline.Request{
		Tid:     "api",
		Kind:    pipeline.KindTag,
		Options: opts,
		Table:   req.Table,
		Test:    body,
	}
	logger.Info().Str("mode", opts.Mode.String()).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(r.Context(), request)
	if !ok {
		fail(w, logger, http.StatusInternalServerError, errors.New("pipeline returned no response"))
		return
	}
	if resp.Err != nil {
		fail(w, logger, http.StatusInternalServerError, resp.Err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(resp.Output)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func (req *Request) tagOptions(r *http.Request) (types.Options, error) {
	query := r.URL.Query()
	var profile *types.Profile
	if name := query.Get("profile"); name != "" {
		p, ok := req.Profiles[name]
		if !ok {
			return types.Options{}, fmt.Errorf("unknown profile %q", name)
		}
		profile = &p
	}
	opts, err := req.Config.Options(profile)
	if err != nil {
		return opts, err
	}
	if mode := query.Get("mode"); mode != "" {
		if opts.Mode, err = pos.ParseMode(mode); err != nil {
			return opts, err
		}
	}
	if tagged := query.Get("tagged"); tagged != "" {
		if opts.TaggedInput, err = strconv.ParseBool(tagged); err != nil {
			return opts, fmt.Errorf("tagged: %w", err)
		}
	}
	return opts, nil
}

// ScoreTags compares two tag sequences sent as JSON.
func (req *Request) ScoreTags(w http.ResponseWriter, r *http.Request) {
	logger := makeRequestLogger(r)
	body, ok := readBody(w, r, logger)
	if !ok {
		return
	}

	var scoreRequest ScoreRequest
	if err := json.Unmarshal(body, &scoreRequest); err != nil {
		fail(w, logger, http.StatusBadRequest, err)
		return
	}
	res, err := eval.Score(scoreRequest.Predicted, scoreRequest.Gold)
	if errors.Is(err, eval.ErrLengthMismatch) || errors.Is(err, eval.ErrNoTags) {
		fail(w, logger, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		fail(w, logger, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newScoreResponse(res)); err != nil {
		logger.Err(err).Msg("Could not write response")
		return
	}
	logger.Info().Int("status", http.StatusOK).Float64("accuracy", res.Accuracy).Msg("Finished processing request")
}

func newScoreResponse(res *eval.Result) ScoreResponse {
	return ScoreResponse{
		Accuracy:       res.Accuracy,
		Correct:        res.CorrectTotal,
		Total:          res.Total,
		CorrectPairs:   pairCounts(res.Matrix.Correct),
		IncorrectPairs: pairCounts(res.Matrix.Incorrect),
	}
}

func pairCounts(counts *eval.PairCounts) []PairCount {
	pairs := make([]PairCount, 0, len(counts.Pairs()))
	for _, p := range counts.Pairs() {
		pairs = append(pairs, PairCount{Predicted: p.Predicted, Gold: p.Gold, Count: counts.Count(p)})
	}
	return pairs
}

func readBody(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) ([]byte, bool) {
	if r.Method != http.MethodPost {
		logger.Warn().Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		fail(w, logger, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err))
		return nil, false
	}
	return body, true
}

func fail(w http.ResponseWriter, logger zerolog.Logger, status int, err error) {
	logger.Err(err).Int("status", status).Msg("Request failed")
	http.Error(w, err.Error(), status)
}
