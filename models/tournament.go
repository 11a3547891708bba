package models

import "fmt"

// TournamentConfig holds the per-tournament values the pairing engine needs.
type TournamentConfig struct {
	TournamentID       int `json:"tournament_id" db:"id"`
	MatchTargetPoints  int `json:"match_target_points" db:"match_target_points"`
	FinalsTargetPoints int `json:"finals_target_points" db:"finals_target_points"`
	CutSize            int `json:"cut_size" db:"cut_size"`
}

func (c *TournamentConfig) Validate() error {
	if c.MatchTargetPoints < 1 {
		return fmt.Errorf("match target points must be positive, got %d", c.MatchTargetPoints)
	}
	if c.FinalsTargetPoints < 1 {
		return fmt.Errorf("finals target points must be positive, got %d", c.FinalsTargetPoints)
	}
	if c.CutSize < 0 {
		return fmt.Errorf("cut size must not be negative, got %d", c.CutSize)
	}
	return nil
}
