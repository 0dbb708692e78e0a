package sqlrepo

// The two engines share one logical schema. SQLite accepts the generic
// DDL below as-is; MySQL gets versioned migrations so a production server
// can evolve without EnsureCreated-style drops.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		user_id_str TEXT NOT NULL,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		password_salt BLOB NOT NULL,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		middle_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL,
		full_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		address_street TEXT NOT NULL,
		address_barangay TEXT NOT NULL DEFAULT '',
		address_city TEXT NOT NULL,
		address_province TEXT NOT NULL,
		address_country_code TEXT NOT NULL,
		address_zip_code TEXT NOT NULL,
		phone_number INTEGER NOT NULL,
		role TEXT NOT NULL,
		registration_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		year_level TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS programs (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		code TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		code TEXT NOT NULL,
		description TEXT NOT NULL,
		instructor_id INTEGER NOT NULL,
		duration_in_hours INTEGER NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		term INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL DEFAULT 'LECTURE',
		units INTEGER NOT NULL DEFAULT 0,
		program_id INTEGER REFERENCES programs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS program_trackers (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS program_progress (
		id INTEGER PRIMARY KEY,
		program_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		date_completed DATETIME,
		tracker_id INTEGER REFERENCES program_trackers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS course_completions (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		course_id INTEGER NOT NULL,
		instructor_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		date_completed DATETIME,
		grade REAL,
		tracker_id INTEGER REFERENCES program_trackers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		is_bool INTEGER NOT NULL DEFAULT 0,
		is_int INTEGER NOT NULL DEFAULT 0,
		is_long INTEGER NOT NULL DEFAULT 0,
		is_string INTEGER NOT NULL DEFAULT 0,
		scope TEXT NOT NULL
	)`,
}

// migration is one applied step recorded in schema_migrations.
type migration struct {
	Version    int
	Statements []string
}

var mysqlMigrations = []migration{
	{
		Version: 1,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INT PRIMARY KEY,
				user_id_str VARCHAR(255) NOT NULL,
				username VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				password_salt VARBINARY(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				first_name VARCHAR(255) NOT NULL,
				middle_name VARCHAR(255) NOT NULL DEFAULT '',
				last_name VARCHAR(255) NOT NULL,
				full_name VARCHAR(255) NOT NULL,
				birth_date VARCHAR(10) NOT NULL,
				address_street VARCHAR(255) NOT NULL,
				address_barangay VARCHAR(255) NOT NULL DEFAULT '',
				address_city VARCHAR(255) NOT NULL,
				address_province VARCHAR(255) NOT NULL,
				address_country_code VARCHAR(2) NOT NULL,
				address_zip_code VARCHAR(10) NOT NULL,
				phone_number BIGINT NOT NULL,
				role VARCHAR(32) NOT NULL,
				registration_date DATETIME NOT NULL,
				status VARCHAR(32) NOT NULL,
				year_level VARCHAR(32) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS programs (
				id INT PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				code VARCHAR(255) NOT NULL,
				description VARCHAR(255) NOT NULL,
				status VARCHAR(32) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS courses (
				id INT PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				code VARCHAR(255) NOT NULL,
				description VARCHAR(255) NOT NULL,
				instructor_id INT NOT NULL,
				duration_in_hours INT NOT NULL,
				year INT NOT NULL DEFAULT 0,
				term INT NOT NULL DEFAULT 0,
				type VARCHAR(32) NOT NULL DEFAULT 'LECTURE',
				units INT NOT NULL DEFAULT 0,
				program_id INT NULL,
				CONSTRAINT fk_courses_program FOREIGN KEY (program_id) REFERENCES programs (id)
			)`,
			`CREATE TABLE IF NOT EXISTS program_trackers (
				id INT PRIMARY KEY,
				user_id INT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS program_progress (
				id INT PRIMARY KEY,
				program_id INT NOT NULL,
				status VARCHAR(32) NOT NULL,
				date_completed DATETIME NULL,
				tracker_id INT NULL,
				CONSTRAINT fk_progress_tracker FOREIGN KEY (tracker_id) REFERENCES program_trackers (id)
			)`,
			`CREATE TABLE IF NOT EXISTS course_completions (
				id INT PRIMARY KEY,
				user_id INT NOT NULL,
				course_id INT NOT NULL,
				instructor_id INT NOT NULL,
				status VARCHAR(32) NOT NULL,
				date_completed DATETIME NULL,
				grade DOUBLE NULL,
				tracker_id INT NULL,
				CONSTRAINT fk_completions_tracker FOREIGN KEY (tracker_id) REFERENCES program_trackers (id)
			)`,
			"CREATE TABLE IF NOT EXISTS settings (" +
				"id INT PRIMARY KEY, " +
				"`key` VARCHAR(255) NOT NULL, " +
				"value VARCHAR(255) NOT NULL, " +
				"is_bool BOOLEAN NOT NULL DEFAULT FALSE, " +
				"is_int BOOLEAN NOT NULL DEFAULT FALSE, " +
				"is_long BOOLEAN NOT NULL DEFAULT FALSE, " +
				"is_string BOOLEAN NOT NULL DEFAULT FALSE, " +
				"scope VARCHAR(32) NOT NULL)",
		},
	},
}
