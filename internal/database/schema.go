package database

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		image TEXT NOT NULL,
		lowest_price INTEGER NOT NULL DEFAULT 0,
		target_price INTEGER NOT NULL DEFAULT 0,
		owner_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner ON products (owner_id)`,
	`CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_folders_owner_name ON folders (owner_id, name)`,
	`CREATE TABLE IF NOT EXISTS product_folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products (id),
		folder_id INTEGER NOT NULL REFERENCES folders (id),
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_product_folders_pair ON product_folders (product_id, folder_id)`,
	`CREATE TABLE IF NOT EXISTS api_use_times (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL UNIQUE,
		total_time INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		image TEXT NOT NULL,
		lowest_price INTEGER NOT NULL DEFAULT 0,
		target_price INTEGER NOT NULL DEFAULT 0,
		owner_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		modified_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner ON products (owner_id)`,
	`CREATE TABLE IF NOT EXISTS folders (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		owner_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		modified_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_folders_owner_name ON folders (owner_id, name)`,
	`CREATE TABLE IF NOT EXISTS product_folders (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products (id),
		folder_id BIGINT NOT NULL REFERENCES folders (id),
		created_at TIMESTAMPTZ NOT NULL,
		modified_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_product_folders_pair ON product_folders (product_id, folder_id)`,
	`CREATE TABLE IF NOT EXISTS api_use_times (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL UNIQUE,
		total_time BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		modified_at TIMESTAMPTZ NOT NULL
	)`,
}
