package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	uuid                  TEXT PRIMARY KEY,
	name                  TEXT NOT NULL DEFAULT '',
	email                 TEXT NOT NULL,
	protocol              TEXT NOT NULL DEFAULT 'imap' CHECK(protocol IN ('imap', 'pop3')),
	imap_host             TEXT NOT NULL DEFAULT '',
	imap_port             TEXT NOT NULL DEFAULT '993',
	imap_username         TEXT NOT NULL DEFAULT '',
	imap_tls              INTEGER NOT NULL DEFAULT 1 CHECK(imap_tls IN (0, 1)),
	inbox_folder_id       INTEGER,
	auto_expand_folder_id INTEGER,
	sort_order            INTEGER NOT NULL DEFAULT 0,
	created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS folders (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	account_uuid  TEXT NOT NULL REFERENCES accounts(uuid) ON DELETE CASCADE,
	server_id     TEXT NOT NULL,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL DEFAULT 'regular',
	is_local_only INTEGER NOT NULL DEFAULT 0 CHECK(is_local_only IN (0, 1)),
	integrate     INTEGER NOT NULL DEFAULT 0 CHECK(integrate IN (0, 1)),
	UNIQUE(account_uuid, server_id)
);

CREATE INDEX IF NOT EXISTS idx_folders_account_uuid ON folders(account_uuid);
CREATE INDEX IF NOT EXISTS idx_folders_integrate ON folders(integrate);

CREATE TABLE IF NOT EXISTS messages (
	folder_id INTEGER NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
	uid       INTEGER NOT NULL,
	seen      INTEGER NOT NULL DEFAULT 0 CHECK(seen IN (0, 1)),
	flagged   INTEGER NOT NULL DEFAULT 0 CHECK(flagged IN (0, 1)),
	deleted   INTEGER NOT NULL DEFAULT 0 CHECK(deleted IN (0, 1)),
	PRIMARY KEY (folder_id, uid)
);

CREATE INDEX IF NOT EXISTS idx_messages_folder_seen ON messages(folder_id, seen);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS widget_configurations (
	app_widget_id INTEGER PRIMARY KEY,
	account_uuid  TEXT NOT NULL,
	folder_id     INTEGER,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
