package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"visa-predictor/internal/dataset"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Print the generator score, threshold and label for one profile",
	RunE:  runLabel,
}

func init() {
	f := labelCmd.Flags()
	f.Int("age", 30, "Applicant age")
	f.String("home-country", "India", "Home country")
	f.String("destination", "Germany", "Destination country")
	f.String("education", "Bachelors", "HighSchool, Bachelors or Masters")
	f.String("employment", "Employed", "Employed or Unemployed")
	f.Int("income", 30000, "Monthly income")
	f.String("purpose", "Study", "Travel purpose")
	f.Int("travel-history", 0, "Previous trips")
	f.Bool("criminal-record", false, "Applicant has a criminal record")
	f.String("english", "Medium", "Low, Medium or High")
}

func runLabel(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	row := dataset.Row{}
	row.Age, _ = f.GetInt("age")
	row.HomeCountry, _ = f.GetString("home-country")
	row.DestinationCountry, _ = f.GetString("destination")
	row.Education, _ = f.GetString("education")
	row.Employment, _ = f.GetString("employment")
	row.MonthlyIncome, _ = f.GetInt("income")
	row.TravelPurpose, _ = f.GetString("purpose")
	row.TravelHistory, _ = f.GetInt("travel-history")
	row.EnglishLevel, _ = f.GetString("english")
	if criminal, _ := f.GetBool("criminal-record"); criminal {
		row.CriminalRecord = 1
	}

	threshold, err := dataset.Threshold(row.DestinationCountry)
	if err != nil {
		return err
	}
	label, err := dataset.Label(row)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "score=%d threshold=%d visa_approved=%d\n",
		dataset.Score(row), threshold, label)
	return nil
}
