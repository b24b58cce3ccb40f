package deps

import (
	"context"
	"database/sql"

	"credstore/internal/config"
	dl "credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	"credstore/internal/db/userfile"
	"credstore/internal/db/usersqlite"
	"credstore/internal/implementations/logging"
	passwordhasher "credstore/internal/implementations/password_hasher"

	"golang.org/x/crypto/bcrypt"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB *sql.DB

	UserRepository user.Repository
	PasswordHasher user.PasswordHasher
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	closeLogger := deps.initLogger()
	closeDB := deps.initUserRepository()

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.bcryptCost())

	return deps, func() {
		closeDB()
		closeLogger()
	}
}

// bcryptCost drops to the minimum in test mode so end-to-end runs stay fast.
func (deps *Deps) bcryptCost() int {
	if deps.Config.IsTestMode {
		return bcrypt.MinCost
	}
	return deps.Config.BcryptHasherCost
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initUserRepository() func() {
	if deps.Config.StorageBackend == config.StorageSQLite {
		db, err := usersqlite.Open(deps.Config.SQLitePath)
		if err != nil {
			panic(err)
		}
		deps.DB = db
		repository := usersqlite.New(db)
		deps.UserRepository = repository

		// Pick up records registered by older file-backed deployments.
		imported, err := repository.ImportFromFile(context.Background(), deps.Config.UsersFilePath)
		if err != nil {
			deps.Logger.Warning(
				context.Background(),
				"Could not import users from file.",
				dl.Entry("path", deps.Config.UsersFilePath),
				dl.Entry("err", err),
			)
		} else if imported > 0 {
			deps.Logger.Info(
				context.Background(),
				"Imported users from file.",
				dl.Entry("path", deps.Config.UsersFilePath),
				dl.Entry("count", imported),
			)
		}
		return func() { db.Close() }
	}

	deps.UserRepository = userfile.New(deps.Config.UsersFilePath)
	return func() {}
}
