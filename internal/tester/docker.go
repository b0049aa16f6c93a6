package tester

import (
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
)

// SetupDocker starts postgres and redis containers for integration runs
// against a production-like stack. The returned func purges both.
func SetupDocker() (func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		logrus.Fatalf("Could not connect to Docker: %s", err)
	}

	// run database
	db, err := pool.Run("postgres", "16", []string{
		"POSTGRES_USER=contentpipe",
		"POSTGRES_PASSWORD=contentpipe",
		"POSTGRES_DB=contentpipe",
	})
	if err != nil {
		logrus.Fatalf("Could not start resource: %s", err)
	}

	// run redis for the current-draft cache
	redis, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		ExposedPorts: []string{
			"6379",
		},
	})
	if err != nil {
		logrus.Fatalf("Could not start resource: %s", err)
	}

	purge := func() {
		if err := pool.Purge(db); err != nil {
			logrus.Fatalf("Could not purge resource: %s", err)
		}

		if err := pool.Purge(redis); err != nil {
			logrus.Fatalf("Could not purge resource: %s", err)
		}
	}

	return purge, nil
}
