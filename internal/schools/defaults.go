package schools

const ftRanking2023 = "Financial Times 2023"

var defaultSchools = []School{
	{
		ID:                      1,
		Name:                    "Harvard Business School",
		Location:                "Boston, MA",
		Country:                 "USA",
		Ranking:                 1,
		RankingSource:           ftRanking2023,
		AcceptanceRate:          11,
		AvgGMAT:                 730,
		AvgGPA:                  3.7,
		AvgWorkExp:              4.7,
		Tuition:                 78000,
		ProgramLength:           24,
		Specializations:         []string{"General Management", "Finance", "Entrepreneurship", "Leadership"},
		EmploymentRate:          96,
		AvgSalary:               175000,
		InternationalStudents:   37,
		ScholarshipAvailability: "Medium",
		Campus:                  "Urban",
	},
	{
		ID:                      2,
		Name:                    "Stanford Graduate School of Business",
		Location:                "Stanford, CA",
		Country:                 "USA",
		Ranking:                 2,
		RankingSource:           ftRanking2023,
		AcceptanceRate:          6,
		AvgGMAT:                 738,
		AvgGPA:                  3.8,
		AvgWorkExp:              4.8,
		Tuition:                 80000,
		ProgramLength:           24,
		Specializations:         []string{"Entrepreneurship", "Social Innovation", "Technology", "General Management"},
		EmploymentRate:          94,
		AvgSalary:               180000,
		InternationalStudents:   42,
		ScholarshipAvailability: "Medium",
		Campus:                  "Suburban",
	},
	{
		ID:                      3,
		Name:                    "INSEAD",
		Location:                "Fontainebleau",
		Country:                 "France",
		Ranking:                 3,
		RankingSource:           ftRanking2023,
		AcceptanceRate:          18,
		AvgGMAT:                 710,
		AvgGPA:                  3.6,
		AvgWorkExp:              5.5,
		Tuition:                 95000,
		ProgramLength:           10,
		Specializations:         []string{"International Business", "Consulting", "Finance", "Entrepreneurship"},
		EmploymentRate:          92,
		AvgSalary:               160000,
		InternationalStudents:   95,
		ScholarshipAvailability: "Medium",
		Campus:                  "Suburban",
	},
	{
		ID:                      4,
		Name:                    "London Business School",
		Location:                "London",
		Country:                 "UK",
		Ranking:                 4,
		RankingSource:           ftRanking2023,
		AcceptanceRate:          15,
		AvgGMAT:                 706,
		AvgGPA:                  3.6,
		AvgWorkExp:              5.5,
		Tuition:                 97000,
		ProgramLength:           21,
		Specializations:         []string{"Finance", "Marketing", "Strategy", "Global Business"},
		EmploymentRate:          93,
		AvgSalary:               156000,
		InternationalStudents:   89,
		ScholarshipAvailability: "Medium",
		Campus:                  "Urban",
	},
	{
		ID:                      5,
		Name:                    "Wharton School",
		Location:                "Philadelphia, PA",
		Country:                 "USA",
		Ranking:                 5,
		RankingSource:           ftRanking2023,
		AcceptanceRate:          20,
		AvgGMAT:                 722,
		AvgGPA:                  3.6,
		AvgWorkExp:              5,
		Tuition:                 82000,
		ProgramLength:           21,
		Specializations:         []string{"Finance", "Entrepreneurship", "Marketing", "Real Estate"},
		EmploymentRate:          95,
		AvgSalary:               170000,
		InternationalStudents:   33,
		ScholarshipAvailability: "Medium",
		Campus:                  "Urban",
	},
}

// DefaultCatalog returns the built-in sample catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultSchools)
	if err != nil {
		panic(err)
	}
	return c
}
