package database

import "entgo.io/ent/dialect"

var createMigrationsTable = map[string]string{
	dialect.SQLite: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL
	)`,
	dialect.Postgres: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL
	)`,
}

// migrations holds, per dialect, an ordered list of SQL migration groups.
// Each group runs in one transaction; its version is the 1-based index.
// Both dialects must keep the same number of groups with the same meaning.
var migrations = map[string][][]string{
	dialect.SQLite: {
		// Migration 1: content types and users-permissions tables
		{
			`CREATE TABLE categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				document_id TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,

			`CREATE TABLE tags (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				document_id TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,

			`CREATE TABLE up_roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				type TEXT NOT NULL UNIQUE,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,

			`CREATE TABLE up_users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				document_id TEXT NOT NULL UNIQUE,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				provider TEXT NOT NULL DEFAULT 'local',
				password TEXT,
				confirmed BOOLEAN NOT NULL DEFAULT FALSE,
				blocked BOOLEAN NOT NULL DEFAULT FALSE,
				role_id INTEGER REFERENCES up_roles(id) ON DELETE SET NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,

			`CREATE TABLE posts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				document_id TEXT NOT NULL UNIQUE,
				title TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				content TEXT NOT NULL DEFAULT '',
				excerpt TEXT NOT NULL DEFAULT '',
				published_at DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,

			`CREATE TABLE posts_categories_lnk (
				post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
				PRIMARY KEY (post_id, category_id)
			)`,

			`CREATE TABLE posts_tags_lnk (
				post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				PRIMARY KEY (post_id, tag_id)
			)`,

			`CREATE TABLE posts_related_posts_lnk (
				post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				related_post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				position INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (post_id, related_post_id),
				CHECK (post_id <> related_post_id)
			)`,
			`CREATE INDEX idx_related_posts_related ON posts_related_posts_lnk(related_post_id)`,
		},
		// Migration 2: run history
		{
			`CREATE TABLE seed_runs (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				error TEXT NOT NULL DEFAULT '',
				categories INTEGER NOT NULL DEFAULT 0,
				tags INTEGER NOT NULL DEFAULT 0,
				users_created INTEGER NOT NULL DEFAULT 0,
				posts_requested INTEGER NOT NULL DEFAULT 0,
				posts_created INTEGER NOT NULL DEFAULT 0,
				related_links INTEGER NOT NULL DEFAULT 0,
				started_at DATETIME NOT NULL,
				finished_at DATETIME NOT NULL
			)`,
			`CREATE INDEX idx_seed_runs_started ON seed_runs(started_at)`,
		},
	},

	dialect.Postgres: {
		// Migration 1: content types and users-permissions tables
		{
			`CREATE TABLE categories (
				id BIGSERIAL PRIMARY KEY,
				document_id UUID NOT NULL UNIQUE,
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,

			`CREATE TABLE tags (
				id BIGSERIAL PRIMARY KEY,
				document_id UUID NOT NULL UNIQUE,
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,

			`CREATE TABLE up_roles (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				type TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,

			`CREATE TABLE up_users (
				id BIGSERIAL PRIMARY KEY,
				document_id UUID NOT NULL UNIQUE,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				provider TEXT NOT NULL DEFAULT 'local',
				password TEXT,
				confirmed BOOLEAN NOT NULL DEFAULT FALSE,
				blocked BOOLEAN NOT NULL DEFAULT FALSE,
				role_id BIGINT REFERENCES up_roles(id) ON DELETE SET NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,

			`CREATE TABLE posts (
				id BIGSERIAL PRIMARY KEY,
				document_id UUID NOT NULL UNIQUE,
				title TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				content TEXT NOT NULL DEFAULT '',
				excerpt TEXT NOT NULL DEFAULT '',
				published_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,

			`CREATE TABLE posts_categories_lnk (
				post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
				PRIMARY KEY (post_id, category_id)
			)`,

			`CREATE TABLE posts_tags_lnk (
				post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				PRIMARY KEY (post_id, tag_id)
			)`,

			`CREATE TABLE posts_related_posts_lnk (
				post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				related_post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				position INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (post_id, related_post_id),
				CHECK (post_id <> related_post_id)
			)`,
			`CREATE INDEX idx_related_posts_related ON posts_related_posts_lnk(related_post_id)`,
		},
		// Migration 2: run history
		{
			`CREATE TABLE seed_runs (
				id UUID PRIMARY KEY,
				status TEXT NOT NULL,
				error TEXT NOT NULL DEFAULT '',
				categories INTEGER NOT NULL DEFAULT 0,
				tags INTEGER NOT NULL DEFAULT 0,
				users_created INTEGER NOT NULL DEFAULT 0,
				posts_requested INTEGER NOT NULL DEFAULT 0,
				posts_created INTEGER NOT NULL DEFAULT 0,
				related_links INTEGER NOT NULL DEFAULT 0,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX idx_seed_runs_started ON seed_runs(started_at)`,
		},
	},
}
