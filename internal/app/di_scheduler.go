package app

import (
	"fmt"
	"sync"

	schedulerRepository "github.com/keygate/keygate/internal/scheduler/repository"
	schedulerUsecase "github.com/keygate/keygate/internal/scheduler/usecase"
)

// schedulerComponents holds the rotation schedule processor dependencies.
//
// The processor, the signing module and the auth module form a cycle at
// startup: rotations schedule expiry events through the processor, and the
// processor dispatches delivered events back to the modules. The event
// handler is created empty and completed via Register once both use cases
// exist.
type schedulerComponents struct {
	scheduleRepo schedulerUsecase.ScheduleRepository
	eventHandler *schedulerUsecase.RotationEventHandler
	useCase      *schedulerUsecase.ScheduleUseCase

	scheduleRepoInit sync.Once
	eventHandlerInit sync.Once
	useCaseInit      sync.Once
	registerInit     sync.Once
}

// ScheduleRepository returns the rotation schedule repository instance.
func (c *Container) ScheduleRepository() (schedulerUsecase.ScheduleRepository, error) {
	c.scheduler.scheduleRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["scheduleRepo"] = fmt.Errorf("failed to get database for schedule repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.scheduler.scheduleRepo = schedulerRepository.NewMySQLScheduleRepository(db)
		case "postgres":
			c.scheduler.scheduleRepo = schedulerRepository.NewPostgreSQLScheduleRepository(db)
		default:
			c.initErrors["scheduleRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["scheduleRepo"]; exists {
		return nil, storedErr
	}
	return c.scheduler.scheduleRepo, nil
}

// RotationEventHandler returns the schedule event dispatcher.
func (c *Container) RotationEventHandler() *schedulerUsecase.RotationEventHandler {
	c.scheduler.eventHandlerInit.Do(func() {
		c.scheduler.eventHandler = schedulerUsecase.NewRotationEventHandler(nil, nil)
	})
	return c.scheduler.eventHandler
}

// ScheduleUseCase returns the rotation schedule processor.
func (c *Container) ScheduleUseCase() (*schedulerUsecase.ScheduleUseCase, error) {
	c.scheduler.useCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["scheduleUseCase"] = err
			return
		}
		scheduleRepo, err := c.ScheduleRepository()
		if err != nil {
			c.initErrors["scheduleUseCase"] = err
			return
		}

		c.scheduler.useCase = schedulerUsecase.NewScheduleUseCase(
			schedulerUsecase.Config{
				PollInterval: c.config.SchedulerPollInterval,
				BatchSize:    c.config.SchedulerBatchSize,
				MaxRetries:   c.config.SchedulerMaxRetries,
			},
			txManager,
			scheduleRepo,
			c.RotationEventHandler(),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["scheduleUseCase"]; exists {
		return nil, storedErr
	}
	return c.scheduler.useCase, nil
}

// StartScheduler completes the event handler wiring and returns the processor
// ready to run. Must be called after the container is otherwise assembled.
func (c *Container) StartScheduler() (*schedulerUsecase.ScheduleUseCase, error) {
	useCase, err := c.ScheduleUseCase()
	if err != nil {
		return nil, err
	}

	var registerErr error
	c.scheduler.registerInit.Do(func() {
		signingUseCase, err := c.SigningSecretUseCase()
		if err != nil {
			registerErr = err
			return
		}
		clientUseCase, err := c.ClientUseCase()
		if err != nil {
			registerErr = err
			return
		}
		c.RotationEventHandler().Register(signingUseCase, clientUseCase)
	})
	if registerErr != nil {
		return nil, registerErr
	}

	return useCase, nil
}
