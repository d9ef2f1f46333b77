package models

// AllModels lists every table in dependency order for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Account{},
		&Session{},
		&Verification{},
		&Category{},
		&Post{},
		&Comment{},
		&Like{},
	}
}
