package database

import (
	"testing"

	"housegig/internal/config"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults without erroring.
	assert.NoError(t, configurePool(db, &config.Config{}))
}

func TestStatementVerb(t *testing.T) {
	assert.Equal(t, "select", statementVerb("SELECT * FROM listings"))
	assert.Equal(t, "insert", statementVerb("  INSERT INTO votes VALUES (1)"))
	assert.Equal(t, "begin", statementVerb("begin"))
	assert.Equal(t, "other", statementVerb("   "))
}

func TestSchemaPolicy(t *testing.T) {
	runSQL, runAuto, err := schemaPolicy(&config.Config{Env: "development", DBSchemaMode: "hybrid"})
	assert.NoError(t, err)
	assert.True(t, runSQL)
	assert.True(t, runAuto)

	runSQL, runAuto, err = schemaPolicy(&config.Config{Env: "production", DBSchemaMode: "hybrid"})
	assert.NoError(t, err)
	assert.True(t, runSQL)
	assert.False(t, runAuto)

	_, _, err = schemaPolicy(&config.Config{Env: "production", DBSchemaMode: "auto"})
	assert.Error(t, err)

	_, _, err = schemaPolicy(&config.Config{Env: "development", DBSchemaMode: "bogus"})
	assert.Error(t, err)
}
