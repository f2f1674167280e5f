package importer

import (
	"fitlog/config"
	"fitlog/workout"
	"fmt"
)

type Mapper interface {
	Name() string
	Map(record Record, cfg config.Config) (*workout.Entry, bool, error)
}

func SupportedMapperNames() []string {
	return []string{"workouts", "generic"}
}

func MapperByName(name string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "workouts":
		return &WorkoutsMapper{}, nil
	case "generic":
		return &GenericMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}
