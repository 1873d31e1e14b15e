// Package wire provides dependency injection for the agenda engine.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/agenda/internal/adapters/cli"
	"github.com/example/agenda/internal/adapters/httpapi"
	"github.com/example/agenda/internal/adapters/notify"
	"github.com/example/agenda/internal/adapters/sqlite"
	"github.com/example/agenda/internal/app"
	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/db"
	"github.com/example/agenda/internal/ports/primary"
)

var (
	cfg    = config.Default()
	logger = zap.NewNop()

	database          *sql.DB
	dispatcher        *app.Dispatcher
	proposalService   primary.ProposalService
	escalationService primary.EscalationService
	reviewService     primary.ReviewService
	expiredService    primary.ExpiredEscalationService
	userService       primary.UserService
	once              sync.Once
)

// Configure sets the configuration and logger used by the first service
// lookup. Calls after initialization have no effect.
func Configure(c config.Config, l *zap.Logger) {
	cfg = c
	if l != nil {
		logger = l
	}
}

// Logger returns the configured logger.
func Logger() *zap.Logger {
	return logger
}

// Config returns the configuration.
func Config() config.Config {
	return cfg
}

// ProposalService returns the singleton ProposalService instance.
func ProposalService() primary.ProposalService {
	once.Do(initServices)
	return proposalService
}

// EscalationService returns the singleton EscalationService instance.
func EscalationService() primary.EscalationService {
	once.Do(initServices)
	return escalationService
}

// ReviewService returns the singleton ReviewService instance.
func ReviewService() primary.ReviewService {
	once.Do(initServices)
	return reviewService
}

// ExpiredEscalationService returns the singleton ExpiredEscalationService instance.
func ExpiredEscalationService() primary.ExpiredEscalationService {
	once.Do(initServices)
	return expiredService
}

// UserService returns the singleton UserService instance.
func UserService() primary.UserService {
	once.Do(initServices)
	return userService
}

// Close waits for queued notifications and closes the database.
// It is a no-op if nothing was initialized.
func Close() {
	if dispatcher != nil {
		dispatcher.Close()
	}
	if database != nil {
		database.Close()
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	database, err = db.Open(cfg.DB.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.DB.Path), zap.Error(err))
	}

	// Secondary ports
	proposals := sqlite.NewProposalRepository(database)
	users := sqlite.NewUserRepository(database)
	documents := sqlite.NewDocumentRepository(database)
	reviews := sqlite.NewReviewRecordRepository(database)
	decisions := sqlite.NewExpiredDecisionRepository(database)
	tx := sqlite.NewTransactor(database)
	notifier := notify.NewOutboxNotifier(sqlite.NewNotificationOutbox(database), logger)

	dispatcher = app.NewDispatcher(proposals, users, notifier, logger)
	executor := app.NewEffectExecutor(documents, dispatcher, logger)
	extension := cfg.Escalation.DeadlineExtension

	// Primary ports
	proposalService = app.NewProposalService(proposals, tx, executor, cfg.Escalation.VotingWindow, logger)
	escalationService = app.NewEscalationService(proposals, users, documents, tx, executor, extension, logger)
	reviewService = app.NewReviewService(proposals, reviews, users, documents, tx, executor, extension, logger)
	expiredService = app.NewExpiredEscalationService(proposals, decisions, users, tx, executor, logger)
	userService = app.NewUserService(users)
}

// HTTPServer returns the JSON API over the singleton services.
func HTTPServer() *httpapi.Server {
	once.Do(initServices)
	return httpapi.NewServer(httpapi.Services{
		Proposals:  proposalService,
		Escalation: escalationService,
		Review:     reviewService,
		Expired:    expiredService,
		Users:      userService,
	}, logger)
}

// ProposalAdapter returns a new ProposalAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ProposalAdapter() *cliadapter.ProposalAdapter {
	return ProposalAdapterWithOutput(os.Stdout)
}

// ProposalAdapterWithOutput returns a new ProposalAdapter writing to out.
func ProposalAdapterWithOutput(out io.Writer) *cliadapter.ProposalAdapter {
	return cliadapter.NewProposalAdapter(ProposalService(), out)
}

// EscalationAdapter returns a new EscalationAdapter writing to stdout.
func EscalationAdapter() *cliadapter.EscalationAdapter {
	return cliadapter.NewEscalationAdapter(EscalationService(), os.Stdout)
}

// ReviewAdapter returns a new ReviewAdapter writing to stdout.
func ReviewAdapter() *cliadapter.ReviewAdapter {
	return cliadapter.NewReviewAdapter(ReviewService(), os.Stdout)
}

// ExpiredAdapter returns a new ExpiredAdapter writing to stdout.
func ExpiredAdapter() *cliadapter.ExpiredAdapter {
	return cliadapter.NewExpiredAdapter(ExpiredEscalationService(), os.Stdout)
}

// UserAdapter returns a new UserAdapter writing to stdout.
func UserAdapter() *cliadapter.UserAdapter {
	return cliadapter.NewUserAdapter(UserService(), os.Stdout)
}
