package domain

// Правила регистрации: username непустой, пароль от 6 символов.
// Более строгие политики можно навесить в HTTP-слое.
const minPasswordLen = 6

func ValidUsername(s string) bool { return s != "" }

func ValidPassword(s string) bool { return len(s) >= minPasswordLen }
