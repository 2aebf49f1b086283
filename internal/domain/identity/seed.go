package identity

import (
	"context"
	"errors"
)

// demoAccounts are the accounts created by the seed command.
var demoAccounts = []RegisterInput{
	{Email: "dr.vikas.sengar@mediconnect.com", Password: "Doctor@2023", Name: "Dr. Vikas Sengar", Role: "doctor", Specialization: "Cardiologist"},
	{Email: "dr.sangeeta.sengar@mediconnect.com", Password: "Doctor@2023", Name: "Dr. Sangeeta Sengar", Role: "doctor", Specialization: "Gynecologist"},
	{Email: "dixitgopal786@gmail.com", Password: "Gopal@1998", Name: "Gopal Dixit", Role: "patient"},
	{Email: "yadavkrishnamohan26@gmail.com", Password: "Mohan@1998", Name: "Krishna Mohan Yadav", Role: "patient"},
	{Email: "ritik.shukla@mediconnect.com", Password: "Donor@2023", Name: "Ritik Shukla", Role: "donor"},
	{Email: "tushar.shukla@mediconnect.com", Password: "Donor@2023", Name: "Tushar Shukla", Role: "donor"},
}

// SeedResult counts what Seed did.
type SeedResult struct {
	Created int
	Skipped int
}

// Seed registers the demo accounts through the normal registration path.
// Accounts whose email already exists are skipped.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	for _, in := range demoAccounts {
		_, err := s.Register(ctx, in)
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			res.Skipped++
		case err != nil:
			return res, err
		default:
			res.Created++
			s.logger.Info().Str("email", in.Email).Str("role", in.Role).Msg("seeded account")
		}
	}
	return res, nil
}
