package storage

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id_user INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    password TEXT NOT NULL,
    admin INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS collections (
    id_collection INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    is_public INTEGER NOT NULL DEFAULT 0,
    id_user INTEGER NOT NULL,

    FOREIGN KEY(id_user) REFERENCES users(id_user)
);

CREATE TABLE IF NOT EXISTS flashcards (
    id_flashcard INTEGER PRIMARY KEY AUTOINCREMENT,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    front_url TEXT NOT NULL DEFAULT '',
    back_url TEXT NOT NULL DEFAULT '',
    id_collection INTEGER NOT NULL,

    FOREIGN KEY(id_collection) REFERENCES collections(id_collection)
);

-- One row per (user, flashcard) pair that has been reviewed at least once.
-- last_date is a date-only YYYY-MM-DD string.
CREATE TABLE IF NOT EXISTS revisions (
    id_user INTEGER NOT NULL,
    id_flashcard INTEGER NOT NULL,
    level INTEGER NOT NULL,
    last_date TEXT NOT NULL,

    PRIMARY KEY (id_user, id_flashcard),
    FOREIGN KEY(id_user) REFERENCES users(id_user),
    FOREIGN KEY(id_flashcard) REFERENCES flashcards(id_flashcard)
);
`
