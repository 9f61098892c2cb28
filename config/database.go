package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			company_name VARCHAR(255),
			is_admin BOOLEAN DEFAULT FALSE,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title VARCHAR(100) NOT NULL,
			description TEXT,
			category VARCHAR(50),
			status VARCHAR(50) NOT NULL DEFAULT 'Planering',
			area VARCHAR(100),
			client_category VARCHAR(50),
			main_contractor VARCHAR(100),
			gross_floor_area NUMERIC,
			building_area NUMERIC,
			num_apartments INTEGER,
			num_floors INTEGER,
			num_buildings INTEGER,
			environmental_class VARCHAR(50),
			start_date TIMESTAMP,
			completion_date TIMESTAMP,
			tender_document_url TEXT,
			created_by UUID REFERENCES users(id),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			project_id UUID REFERENCES projects(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			contractor_type VARCHAR(50) NOT NULL,
			amount NUMERIC NOT NULL CHECK (amount > 0),
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			company_name VARCHAR(255),
			phone_number VARCHAR(50),
			email VARCHAR(255),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS quote_access_requests (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			quote_id UUID NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			requester_user_id UUID NOT NULL REFERENCES users(id),
			uploader_user_id UUID NOT NULL REFERENCES users(id),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS registered_emails (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			city VARCHAR(100),
			company_type VARCHAR(50) NOT NULL,
			contractor_type VARCHAR(50) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_project_id ON quotes(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_user_id ON quotes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_access_requests_quote_id ON quote_access_requests(quote_id)`,
		`CREATE INDEX IF NOT EXISTS idx_access_requests_requester ON quote_access_requests(requester_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_access_requests_uploader ON quote_access_requests(uploader_user_id)`,

		// One active request per (quote, requester). Closes the
		// check-then-insert race at the store instead of in the handler.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_access_requests_active
			ON quote_access_requests(quote_id, requester_user_id)
			WHERE status IN ('pending', 'granted')`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
