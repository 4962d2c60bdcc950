package usecase

// SetIDGenerator replaces the id source so tests can predict tokens and ids.
func (u *AuthUsecase) SetIDGenerator(fn func() string) {
	u.newID = fn
}
