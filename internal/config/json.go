package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// jsonFloat encodes infinities as the strings "+inf" and "-inf", which
// encoding/json rejects as numbers.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "+inf", "inf":
			*f = jsonFloat(math.Inf(1))
		case "-inf":
			*f = jsonFloat(math.Inf(-1))
		case "nan":
			*f = jsonFloat(math.NaN())
		default:
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type experimentSectionAlias ExperimentSection

type experimentSectionJSON struct {
	experimentSectionAlias
	FitnessGoal jsonFloat `json:"fitness_goal"`
}

func (s ExperimentSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(experimentSectionJSON{
		experimentSectionAlias: experimentSectionAlias(s),
		FitnessGoal:            jsonFloat(s.FitnessGoal),
	})
}

func (s *ExperimentSection) UnmarshalJSON(data []byte) error {
	doc := experimentSectionJSON{
		experimentSectionAlias: experimentSectionAlias(*s),
		FitnessGoal:            jsonFloat(s.FitnessGoal),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = ExperimentSection(doc.experimentSectionAlias)
	s.FitnessGoal = float64(doc.FitnessGoal)
	return nil
}

type selectionSectionAlias SelectionSection

type selectionSectionJSON struct {
	selectionSectionAlias
	EliteMinFitness jsonFloat `json:"elite_min_fitness"`
}

func (s SelectionSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionSectionJSON{
		selectionSectionAlias: selectionSectionAlias(s),
		EliteMinFitness:       jsonFloat(s.EliteMinFitness),
	})
}

func (s *SelectionSection) UnmarshalJSON(data []byte) error {
	doc := selectionSectionJSON{
		selectionSectionAlias: selectionSectionAlias(*s),
		EliteMinFitness:       jsonFloat(s.EliteMinFitness),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = SelectionSection(doc.selectionSectionAlias)
	s.EliteMinFitness = float64(doc.EliteMinFitness)
	return nil
}
