package bloodbank

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MLPerUnit is the volume of one inventory unit. Partial units are discarded.
const MLPerUnit = 450

// MaxDonationML bounds a single donation.
const MaxDonationML = 2000

var bloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func IsBloodType(s string) bool {
	for _, bt := range bloodTypes {
		if bt == s {
			return true
		}
	}
	return false
}

// UnitsFor converts a donated volume to whole inventory units.
func UnitsFor(amountML int) int {
	if amountML <= 0 {
		return 0
	}
	return amountML / MLPerUnit
}

type DonationStatus string

const (
	DonationScheduled DonationStatus = "scheduled"
	DonationCompleted DonationStatus = "completed"
	DonationCancelled DonationStatus = "cancelled"
)

type Donation struct {
	ID           uuid.UUID      `json:"id"`
	DonorID      uuid.UUID      `json:"donor_id"`
	BloodType    string         `json:"blood_type"`
	AmountML     int            `json:"amount_ml"`
	DonationDate time.Time      `json:"donation_date"`
	Status       DonationStatus `json:"status"`
}

// InventoryItem is the running unit count for one blood type.
type InventoryItem struct {
	BloodType string `json:"blood_type"`
	Units     int    `json:"units"`
}

func bloodTypeList() string {
	return strings.Join(bloodTypes, ", ")
}
