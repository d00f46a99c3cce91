package packets

// Password limits are in runes here; HashPassword also enforces bcrypt's
// byte limit for multi-byte scripts.

type SignupRequest struct {
	Email    string  `json:"email"    binding:"required,email,max=254"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Name     *string `json:"name"     binding:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// email is stored lowercased; a nil name clears it
type UpdateCurrentProfileRequest struct {
	Email string  `json:"email" binding:"required,email,max=254"`
	Name  *string `json:"name"  binding:"omitempty,max=200"`
}
