package seedmodels

// SeedUser defines a user entry in the JSON seed file. Password is plain text
// and is hashed before it is stored.
type SeedUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SeedQuestion defines a question entry in the JSON seed file.
type SeedQuestion struct {
	ID            int64    `json:"id"`
	QuestionText  string   `json:"question_text"`
	CorrectAnswer string   `json:"correct_answer"`
	Choices       []string `json:"choices"`
	Commentary    string   `json:"commentary"`
	Tag           string   `json:"tag"`
}

// SeedFile is the top-level structure of the seed file.
type SeedFile struct {
	Users     []SeedUser     `json:"users"`
	Questions []SeedQuestion `json:"questions"`
}
