package main

import (
	"text2phenotype.com/postag/api"
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/worker"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"net/http"
	"os"
	"time"
)

type Config struct {
	RestAPIActive bool   `envconfig:"POSTAG_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"POSTAG_REST_API_PORT" default:"10000"`
	TrainingPath  string `envconfig:"POSTAG_TRAINING_PATH" default:""`
	ProfilesDir   string `envconfig:"POSTAG_PROFILES_DIR" default:""`
}

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")
	fatalErrLogger := mainLogger.Fatal().Caller()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}
	ppln := pipeline.New()

	if config.RestAPIActive {
		apiRequest, err := newAPIRequest(config, ppln)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to prepare REST API")
			os.Exit(1)
		}
		go func() {
			mux := http.NewServeMux()
			apiRequest.Register(mux)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, mux)
			mainLogger.Fatal().Err(err).Msg("REST API stopped with error")
		}()
	}

	mainLogger.Info().Msg("Start POS tagging worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		if err = rmqWorker.StartWorker(); err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func newAPIRequest(config Config, ppln pipeline.Pipeline) (*api.Request, error) {
	if config.TrainingPath == "" {
		return nil, fmt.Errorf("POSTAG_TRAINING_PATH is required when the REST API is active")
	}
	cfg, err := types.ReadConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(nil)
	if err != nil {
		return nil, err
	}
	tokens, err := corpus.LoadTokens(config.TrainingPath, opts.Encoding)
	if err != nil {
		return nil, err
	}
	profiles := map[string]types.Profile{}
	if config.ProfilesDir != "" {
		loaded, err := types.LoadProfiles(config.ProfilesDir)
		if err != nil {
			return nil, err
		}
		for _, profile := range loaded {
			profiles[profile.Name] = profile
		}
	}
	return &api.Request{
		Pipeline: ppln,
		Table:    pos.BuildTable(tokens),
		Config:   cfg,
		Profiles: profiles,
	}, nil
}
