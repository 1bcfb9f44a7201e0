package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"visa-predictor/internal/visa"
)

// FeatureNames is the column order the model was trained with.
var FeatureNames = []string{
	"age",
	FieldHomeCountry,
	FieldDestination,
	FieldEducation,
	FieldEmployment,
	"monthly_income",
	FieldTravelPurpose,
	"travel_history",
	"criminal_record",
	FieldEnglishLevel,
}

const (
	idxAge = iota
	idxHomeCountry
	idxDestination
	idxEducation
	idxEmployment
	idxIncome
	idxPurpose
	idxTravelHistory
	idxCriminal
	idxEnglish
)

// Features is one encoded row in FeatureNames order.
type Features []float64

// EncodeProfile builds the model input for a profile.
func EncodeProfile(p visa.Profile, enc *LabelEncoder) Features {
	f := make(Features, len(FeatureNames))
	f[idxAge] = float64(p.Age)
	f[idxHomeCountry] = float64(enc.Encode(FieldHomeCountry, p.HomeCountry))
	f[idxDestination] = float64(enc.Encode(FieldDestination, p.DestinationCountry))
	f[idxEducation] = float64(enc.Encode(FieldEducation, string(p.Education)))
	f[idxEmployment] = float64(enc.Encode(FieldEmployment, string(p.Employment)))
	f[idxIncome] = float64(p.MonthlyIncome)
	f[idxPurpose] = float64(enc.Encode(FieldTravelPurpose, string(p.TravelPurpose)))
	f[idxTravelHistory] = float64(p.TravelHistory)
	f[idxCriminal] = float64(p.CriminalRecord.Int())
	f[idxEnglish] = float64(enc.Encode(FieldEnglishLevel, string(p.EnglishLevel)))
	return f
}

// Key is a stable digest of the vector, used as a cache key.
func (f Features) Key() string {
	h := sha256.New()
	for _, v := range f {
		h.Write(strconv.AppendFloat(nil, v, 'g', -1, 64))
		h.Write([]byte{','})
	}
	return hex.EncodeToString(h.Sum(nil))
}
