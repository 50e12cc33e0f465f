package domain

type User struct {
	ID string
}
