package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"wego/internal/infrastructure/mysql"
)

const (
	testDatabase = "wego_test"
	mysqlImage   = "mysql:8.0.36"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// SetupTestDB abre la BD de prueba. Usa TEST_MYSQL_DSN si está definida; si
// no, arranca un contenedor MySQL compartido por todo el paquete. Se omite en
// modo -short o cuando Docker no está disponible.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		if testing.Short() {
			t.Skip("skipping mysql container test in short mode")
		}
		testcontainers.SkipIfProviderIsNotHealthy(t)

		containerOnce.Do(func() {
			containerDSN, containerErr = startMySQL(context.Background())
		})
		if containerErr != nil {
			t.Skipf("mysql container not available: %v", containerErr)
		}
		dsn = containerDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Verify connection
	err = db.Ping()
	if err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// El contenedor vive lo que dura el proceso de test; Ryuk lo elimina al salir.
func startMySQL(ctx context.Context) (string, error) {
	container, err := tcmysql.Run(ctx, mysqlImage, tcmysql.WithDatabase(testDatabase))
	if err != nil {
		return "", fmt.Errorf("starting mysql container: %w", err)
	}

	raw, err := container.ConnectionString(ctx)
	if err != nil {
		return "", fmt.Errorf("reading connection string: %w", err)
	}

	cfg, err := driver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.Params = map[string]string{"time_zone": "'+00:00'"}

	return cfg.FormatDSN(), nil
}

// CleanupTestDB limpia la BD de prueba
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders", "InvoiceSettings", "Admins", "Product"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables aplica las migraciones embebidas sobre la BD de prueba
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	var name string
	if err := db.QueryRow("SELECT DATABASE()").Scan(&name); err != nil {
		t.Fatalf("failed to read test database name: %v", err)
	}

	if err := mysql.RunMigrations(db, name); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// InsertProduct inserta un producto mínimo y devuelve su id
func InsertProduct(t *testing.T, db *sql.DB, name string, stock int, price, purchasingPrice float64) int {
	result, err := db.Exec(`
		INSERT INTO Product (name, description, price, purchasingPrice, category, stock, isActive)
		VALUES (?, '', ?, ?, 'Electronics', ?, 1)`,
		name, price, purchasingPrice, stock,
	)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}
