// ABOUTME: SQLite schema for the norma corpus
// ABOUTME: Normas catalog plus fragment table with embedding BLOBs
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Normas catalog (one row per regulatory document)
CREATE TABLE IF NOT EXISTS normas (
    id INTEGER PRIMARY KEY,
    titulo TEXT NOT NULL,
    codigo TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Norma fragments with pre-computed embeddings
CREATE TABLE IF NOT EXISTS norma_partes (
    id TEXT PRIMARY KEY,
    norma_id INTEGER REFERENCES normas(id) ON DELETE CASCADE,
    seccion TEXT,
    articulo TEXT,
    tipo TEXT,
    texto TEXT NOT NULL,
    embedding BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_partes_norma ON norma_partes(norma_id);
`
