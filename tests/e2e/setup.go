//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"car-rental-core/cmd/bootstrap"
	"car-rental-core/cmd/bootstrap/components"
	"car-rental-core/internal/infra/db"
	"car-rental-core/internal/pkg/config"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/tests/common/dbtest"

	"github.com/cenkalti/backoff/v4"
	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
)

// endpoint is a container port as seen from the test process.
type endpoint struct {
	Host string
	Port nat.Port
}

func (e endpoint) Addr() string {
	return net.JoinHostPort(e.Host, e.Port.Port())
}

// backing holds the containers shared by every suite in the process.
type backing struct {
	postgres endpoint
	redis    endpoint
}

var (
	backingOnce sync.Once
	stack       backing
	backingErr  error
)

// env is one suite's view of the stack: its own database, a shared Redis
// and an fx app wired exactly like cmd/main.go minus the HTTP server.
type env struct {
	pool   *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
	cfg    config.Config
}

func setupEnv(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backingOnce.Do(func() { stack, backingErr = startBacking() })
	require.NoError(t, backingErr, "starting containers")

	dbCfg := createDatabase(t, stack.postgres)
	pool, cleanup, err := db.Connect(dbCfg)
	require.NoError(t, err, "connecting to test database")
	t.Cleanup(cleanup)

	require.NoError(t, applyMigrations(t, pool), "applying migrations")
	require.NoError(t, dbtest.SeedReferenceData(context.Background(), pool), "seeding reference data")

	e := env{pool: pool}
	app := fx.New(
		fx.Supply(pool, testConfig(dbCfg, stack.redis)),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.MetricsModule,
		bootstrap.CacheModule,
		bootstrap.MessagingModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.WorkerModule,
		components.HandlerModule,
		fx.Populate(&e.router, &e.cfg, &e.redis),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(startCtx), "starting app")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop app", "error", err.Error())
		}
	})

	return e
}

// testConfig turns the lifecycle workers off so sweeps only run when a test
// calls the admin endpoint.
func testConfig(dbCfg config.DBConfig, redisAt endpoint) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.Redis.Addr = redisAt.Addr()
	cfg.Notify.Publisher = "log"
	cfg.Lifecycle.WorkersEnabled = false
	return cfg
}

// createDatabase gives the calling suite a fresh database on the shared
// server and drops it afterwards.
func createDatabase(t *testing.T, pg endpoint) config.DBConfig {
	t.Helper()

	name := "rental_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", pgUser, pgPassword, pg.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection")
	defer admin.Close()

	// The server can still be finishing recovery right after the wait
	// strategy reports ready.
	create := func() error {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		return err
	}
	retry := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5), ctx)
	require.NoError(t, backoff.RetryNotify(create, retry, func(err error, wait time.Duration) {
		slog.Warn("retrying database creation", "database", name, "wait", wait, "error", err.Error())
	}), "creating test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		drop, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("drop connection failed", "database", name, "error", err.Error())
			return
		}
		defer drop.Close()
		if _, err := drop.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     pg.Host,
		Port:     pg.Port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
}

// applyMigrations runs every migrations/*.sql file in name order. The atlas
// CLI is not assumed to be installed where the tests run.
func applyMigrations(t *testing.T, pool *pgxpool.Pool) error {
	t.Helper()

	root, err := moduleRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return errs.Wrap(err, "listing migrations")
	}
	if len(files) == 0 {
		return errs.Newf("no migrations under %s", root)
	}
	sort.Strings(files)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return errs.Wrapf(err, "reading migration %s", file)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return errs.Wrapf(err, "applying migration %s", filepath.Base(file))
		}
	}
	return nil
}

// moduleRoot walks up from the package directory go test runs in.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errs.Wrap(err, "resolving working directory")
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.New("go.mod not found above the test package")
		}
		dir = parent
	}
}

func startBacking() (backing, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       "postgres",
		},
		Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
		// Durability is irrelevant for a throwaway tmpfs cluster.
		Cmd: []string{
			"postgres",
			"-c", "fsync=off",
			"-c", "full_page_writes=off",
			"-c", "synchronous_commit=off",
			"-c", "max_connections=200",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable",
				pgUser, pgPassword, net.JoinHostPort(host, port.Port()))
		}).WithStartupTimeout(60 * time.Second),
		Labels: map[string]string{"purpose": "car-rental-e2e"},
	}, "5432/tcp")
	if err != nil {
		return backing{}, errs.Wrap(err, "postgres")
	}

	rd, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		Labels:       map[string]string{"purpose": "car-rental-e2e"},
	}, "6379/tcp")
	if err != nil {
		return backing{}, errs.Wrap(err, "redis")
	}

	slog.Info("e2e containers ready", "postgres", pg.Addr(), "redis", rd.Addr())
	return backing{postgres: pg, redis: rd}, nil
}

// startContainer leaves teardown to the testcontainers reaper, since the
// containers outlive any single suite.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest, port string) (endpoint, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return endpoint{}, err
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return endpoint{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return endpoint{}, err
	}
	return endpoint{Host: host, Port: mapped}, nil
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	e := setupEnv(s.T())
	s.Router = e.router
	s.DB = e.pool
	s.Redis = e.redis
	s.Config = e.cfg
	require.NotNil(s.T(), s.Router, "router setup failed")
}

// SetupSubTest gives every s.Run block an empty database and idempotency cache.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "resetting database")
	if s.Redis != nil {
		require.NoError(s.T(), s.Redis.FlushDB(context.Background()).Err(), "flushing redis")
	}
}
