package catalog

import (
	"github.com/alexanderramin/ascent/internal/calendar"
)

// OnboardingModule is the guided content shown on one preparation journey day.
type OnboardingModule struct {
	Day   int
	Key   string
	Title string
	Steps []string
}

var onboardingModules = [calendar.OnboardingDays]OnboardingModule{
	{
		Day:   1,
		Key:   "welcome",
		Title: "Welcome to the program",
		Steps: []string{"Complete your Leader Profile", "Take the Baseline Assessment"},
	},
	{
		Day:   2,
		Key:   "bookends",
		Title: "Morning and evening bookends",
		Steps: []string{"Set your morning intention", "Write your evening reflection"},
	},
	{
		Day:   3,
		Key:   "reading",
		Title: "Foundational reading",
		Steps: []string{"Read the first chapter", "Note one idea to try this week"},
	},
	{
		Day:   4,
		Key:   "video",
		Title: "Kickoff video",
		Steps: []string{"Watch the kickoff session"},
	},
	{
		Day:   5,
		Key:   "recap",
		Title: "Recap and ready",
		Steps: []string{"Review what you have covered", "Confirm your program start date"},
	},
}

// Onboarding returns the module for a journey day. Days past the last module
// keep showing the recap.
func Onboarding(journeyDay int) OnboardingModule {
	m := onboardingModules[calendar.OnboardingDay(journeyDay)-1]
	m.Steps = append([]string(nil), m.Steps...)
	return m
}
