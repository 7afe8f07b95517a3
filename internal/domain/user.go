package domain

// User is an operator account. Shoppers stay anonymous sessions; users
// exist only to gate the admin surface (catalog sync, settings).
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}
