//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// schemaPath resolves db/schema.sql from this file rather than the working
// directory, so the helper works from any package.
func schemaPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "schema.sql")
}

// openTestDB starts MySQL with the schema loaded at init and returns an open
// handle to it.
func openTestDB(t require.TestingT, ctx context.Context) (*sql.DB, func()) {
	const (
		dbName = "notifyd_test"
		user   = "notifyd"
		pass   = "notifyd"
	)

	container, err := mysql.RunContainer(ctx,
		testcontainers.WithImage("mysql:8.0"),
		mysql.WithDatabase(dbName),
		mysql.WithUsername(user),
		mysql.WithPassword(pass),
		mysql.WithScripts(schemaPath()),
	)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("3306/tcp"))
	require.NoError(t, err)

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC", user, pass, host, port.Port(), dbName)
	conn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, conn.PingContext(ctx))

	return conn, func() {
		_ = conn.Close()
		_ = container.Terminate(ctx)
	}
}
