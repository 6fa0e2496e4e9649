package container

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"iseg-kit/config"
	app "iseg-kit/internal/application"
	"iseg-kit/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	AnnotationService *app.AnnotationService

	EvalOptions    app.EvalOptions
	GaussianClicks bool
	Logger         *logrus.Logger
}

func New(
	cfg *config.Config,
	userRepo port.UserRepository,
	sessions port.SessionRepository,
	store port.AnnotationStore,
	analyzer port.MaskAnalyzer,
	predictor port.Predictor,
	logger *logrus.Logger,
) *Container {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := app.CorrectionOptions{
		VoidLabel: cfg.VoidLabel,
		Clicks:    cfg.ClicksPerRound,
		Step:      cfg.ClickStep,
	}

	userService := app.NewUserService(userRepo)
	correctionService := app.NewCorrectionService(analyzer, rand.New(rand.NewSource(seed)), logger)
	evaluationService := app.NewEvaluationService(correctionService, predictor, logger)
	annotationService := app.NewAnnotationService(userService, sessions, store,
		correctionService, evaluationService, predictor, opts, cfg.Annotator, logger)

	return &Container{
		UserService:       userService,
		AnnotationService: annotationService,
		EvalOptions: app.EvalOptions{
			MaxClicks:    cfg.MaxClicks,
			IoUThreshold: cfg.IoUThreshold,
			Correction:   opts,
		},
		GaussianClicks: cfg.GaussianClicks,
		Logger:         logger,
	}
}
