package seeder

// Defaults returns the catalog seeder. Sample data is opt-in through WithSample.
func Defaults() []Seeder {
	return []Seeder{SkillsSeeder{}}
}

func WithSample() []Seeder {
	return append(Defaults(), SampleCompanySeeder{})
}
