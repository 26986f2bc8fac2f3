package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id          TEXT PRIMARY KEY,
    email       TEXT NOT NULL,
    label       TEXT,
    avatar      TEXT,
    position    INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id     TEXT PRIMARY KEY,
    full_name   TEXT NOT NULL DEFAULT '',
    username    TEXT NOT NULL DEFAULT '',
    bio         TEXT NOT NULL DEFAULT '',
    avatar_url  TEXT NOT NULL DEFAULT '',
    updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id          TEXT PRIMARY KEY,
    account_id  TEXT NOT NULL,
    position    INTEGER NOT NULL,
    from_addr   TEXT NOT NULL,
    from_name   TEXT,
    to_addrs    TEXT,
    subject     TEXT,
    body_text   TEXT,
    date        DATETIME NOT NULL,
    folder      TEXT NOT NULL,
    is_read     BOOLEAN DEFAULT FALSE,
    is_starred  BOOLEAN DEFAULT FALSE,
    reply_to_id TEXT
);

CREATE TABLE IF NOT EXISTS message_labels (
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    label       TEXT NOT NULL,
    position    INTEGER NOT NULL,
    PRIMARY KEY (message_id, label)
);

CREATE TABLE IF NOT EXISTS attachments (
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    name        TEXT,
    size        TEXT,
    type        TEXT,
    PRIMARY KEY (message_id, position)
);

CREATE TABLE IF NOT EXISTS replies (
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    text        TEXT,
    date        DATETIME NOT NULL,
    sender      TEXT,
    PRIMARY KEY (message_id, position)
);

CREATE TABLE IF NOT EXISTS labels (
    name        TEXT PRIMARY KEY,
    color       TEXT NOT NULL,
    position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
    key         TEXT PRIMARY KEY,
    value       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS sent_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     TEXT NOT NULL,
    to_email    TEXT NOT NULL,
    subject     TEXT,
    body        TEXT,
    sent_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_account ON messages(account_id, folder);
CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(position);
CREATE INDEX IF NOT EXISTS idx_sent_log_user ON sent_log(user_id, sent_at DESC);
`
