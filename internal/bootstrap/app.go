package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"esign-backend/internal/contacts"
	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/inputs"
	"esign-backend/internal/notify"
	"esign-backend/internal/queue"
	"esign-backend/internal/shared/config"
	"esign-backend/internal/shared/storage/db"
	"esign-backend/internal/sharing"
	"esign-backend/internal/signatories"
	"esign-backend/internal/tokens"
	"esign-backend/internal/workerproc"
)

// App holds shared dependencies for the API server and the worker. Both
// binaries call Build and pick what they need.
type App struct {
	Config config.Config
	DB     *sql.DB
	Queue  queue.Delayed

	ContactsRepo contacts.Repo
	UsersRepo    identity.Repo
	DocsRepo     documents.Repo
	SigsRepo     signatories.Repo
	InputsRepo   inputs.Repo
	SharesRepo   sharing.ShareRepo
	LedgerRepo   sharing.LedgerRepo

	Identity   *identity.Service
	Tokens     *tokens.Issuer
	DocsSvc    *documents.Service
	SigsSvc    *signatories.Service
	Dispatcher *sharing.Dispatcher
	Processor  *workerproc.Processor

	DocsHandler     *documents.Handler
	SigsHandler     *signatories.Handler
	SharingHandler  *sharing.Handler
	ContactsHandler *contacts.Handler
}

// Build prepares shared dependencies. Postgres and Redis are optional: with
// either URL missing (or unreachable) the corresponding in-memory
// implementation is used, which keeps local development dependency-free.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	app := &App{Config: cfg}

	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else if err := db.RunMigrations(ctx, conn); err != nil {
			log.Printf("failed to run migrations, falling back to memory: %v", err)
			conn.Close()
		} else {
			app.DB = conn
		}
	}

	if app.DB != nil {
		app.ContactsRepo = &contacts.PGRepo{DB: app.DB}
		app.UsersRepo = &identity.PGRepo{DB: app.DB}
		app.DocsRepo = &documents.PGRepo{DB: app.DB}
		app.SigsRepo = &signatories.PGRepo{DB: app.DB}
		app.InputsRepo = &inputs.PGRepo{DB: app.DB}
		app.SharesRepo = &sharing.PGShareRepo{DB: app.DB}
		app.LedgerRepo = &sharing.PGLedgerRepo{DB: app.DB}
	} else {
		app.ContactsRepo = contacts.NewMemoryRepo()
		app.UsersRepo = identity.NewMemoryRepo()
		app.DocsRepo = documents.NewMemoryRepo()
		app.SigsRepo = signatories.NewMemoryRepo()
		app.InputsRepo = inputs.NewMemoryRepo()
		app.SharesRepo = sharing.NewMemoryShareRepo()
		app.LedgerRepo = sharing.NewMemoryLedgerRepo()
	}

	app.Queue = buildQueue(ctx, cfg)

	app.Identity = identity.NewService(app.UsersRepo)
	app.Tokens = tokens.NewIssuer(cfg.ShareTokenSecret, cfg.ProjectName, cfg.ShareTokenTTLSeconds)

	app.DocsSvc = &documents.Service{
		Repo:     app.DocsRepo,
		Inputs:   app.InputsRepo,
		Sigs:     app.SigsRepo,
		Contacts: app.ContactsRepo,
		Users:    app.UsersRepo,
	}
	app.SigsSvc = signatories.NewService(app.SigsRepo, app.DocsRepo)

	app.Dispatcher = &sharing.Dispatcher{
		Shares:   app.SharesRepo,
		Ledger:   app.LedgerRepo,
		Docs:     app.DocsRepo,
		Sigs:     app.SigsRepo,
		Contacts: app.ContactsRepo,
		Identity: app.Identity,
		Tokens:   app.Tokens,
		Queue:    app.Queue,
		BaseURL:  strings.TrimRight(cfg.ShareBaseURL, "/"),
	}

	app.Processor = &workerproc.Processor{
		Docs:          app.DocsRepo,
		Sigs:          app.SigsRepo,
		Ledger:        app.LedgerRepo,
		Identity:      app.Identity,
		Email:         buildEmailSender(cfg),
		SMS:           buildSMSSender(cfg),
		SMSOriginator: cfg.SMSOriginator,
	}

	app.DocsHandler = documents.NewHandler(app.DocsSvc)
	app.SigsHandler = signatories.NewHandler(app.SigsSvc)
	app.SharingHandler = sharing.NewHandler(app.Dispatcher)
	app.ContactsHandler = contacts.NewHandler(app.ContactsRepo)

	return app, nil
}

func buildQueue(ctx context.Context, cfg config.Config) queue.Delayed {
	if cfg.RedisURL == "" {
		return queue.NewMemoryQueue()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, falling back to memory queue: %v", err)
		return queue.NewMemoryQueue()
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, falling back to memory queue: %v", err)
		return queue.NewMemoryQueue()
	}
	return queue.NewRedisQueue(client, "")
}

func buildEmailSender(cfg config.Config) notify.EmailSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &notify.SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}
}

func buildSMSSender(cfg config.Config) notify.SMSSender {
	if cfg.SMSGatewayURL == "" {
		return nil
	}
	return notify.NewHTTPSMSSender(cfg.SMSGatewayURL, cfg.SMSAPIKey)
}
