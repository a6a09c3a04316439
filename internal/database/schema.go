package database

import "github.com/northstar/dispatch-backend/internal/config"

// SQLiteSchema is the authoritative SQLite schema. Tests load it through
// SchemaFor so repository code and test fixtures cannot drift apart.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS drivers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	notes TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS routes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	driver_id INTEGER REFERENCES drivers(id),
	total_distance REAL NOT NULL DEFAULT 0 CHECK(total_distance >= 0),
	total_duration INTEGER NOT NULL DEFAULT 0 CHECK(total_duration >= 0),
	total_revenue REAL NOT NULL DEFAULT 0 CHECK(total_revenue >= 0),
	created_at DATETIME NOT NULL,
	eta DATETIME NOT NULL,
	expiration DATETIME NOT NULL,
	share_token TEXT NOT NULL UNIQUE,
	notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_routes_expiration ON routes(expiration);
CREATE INDEX IF NOT EXISTS idx_routes_driver_id ON routes(driver_id);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	route_id INTEGER NOT NULL,
	vehicle_year INTEGER,
	vehicle_make TEXT,
	vehicle_model TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0 CHECK(price >= 0),
	notes TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_orders_route_id ON orders(route_id);

CREATE TABLE IF NOT EXISTS stops (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	route_id INTEGER NOT NULL,
	order_id INTEGER NOT NULL,
	address TEXT NOT NULL,
	latitude REAL,
	longitude REAL,
	stop_type TEXT NOT NULL CHECK(stop_type IN ('pickup', 'delivery')),
	sequence_number INTEGER NOT NULL CHECK(sequence_number >= 0),
	notes TEXT,
	FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_stops_route_id ON stops(route_id);
CREATE INDEX IF NOT EXISTS idx_stops_order_id ON stops(order_id)
`

// PostgresSchema mirrors SQLiteSchema for PostgreSQL deployments
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS drivers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS routes (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	driver_id BIGINT REFERENCES drivers(id),
	total_distance DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(total_distance >= 0),
	total_duration INTEGER NOT NULL DEFAULT 0 CHECK(total_duration >= 0),
	total_revenue DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(total_revenue >= 0),
	created_at TIMESTAMPTZ NOT NULL,
	eta TIMESTAMPTZ NOT NULL,
	expiration TIMESTAMPTZ NOT NULL,
	share_token TEXT NOT NULL UNIQUE,
	notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_routes_expiration ON routes(expiration);
CREATE INDEX IF NOT EXISTS idx_routes_driver_id ON routes(driver_id);

CREATE TABLE IF NOT EXISTS orders (
	id BIGSERIAL PRIMARY KEY,
	route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
	vehicle_year INTEGER,
	vehicle_make TEXT,
	vehicle_model TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(price >= 0),
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_route_id ON orders(route_id);

CREATE TABLE IF NOT EXISTS stops (
	id BIGSERIAL PRIMARY KEY,
	route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
	order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	address TEXT NOT NULL,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	stop_type TEXT NOT NULL CHECK(stop_type IN ('pickup', 'delivery')),
	sequence_number INTEGER NOT NULL CHECK(sequence_number >= 0),
	notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_stops_route_id ON stops(route_id);
CREATE INDEX IF NOT EXISTS idx_stops_order_id ON stops(order_id)
`

// SchemaFor returns the schema for a sqlx driver name
func SchemaFor(driverName string) string {
	if driverName == config.DriverPostgres {
		return PostgresSchema
	}
	return SQLiteSchema
}
