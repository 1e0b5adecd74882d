package insights

import (
	"context"
	"fmt"
	"strings"
)

// SeasonNarrative renders a team's season summary as prose. A team with
// no insight yields an explanatory one-liner instead of an error.
func (g *Generator) SeasonNarrative(ctx context.Context, team string, season int) (string, error) {
	ti, err := g.TeamInsights(ctx, team, season)
	if err != nil {
		return "", err
	}
	if ti == nil {
		return fmt.Sprintf("Unable to generate insights for %s in %d", team, season), nil
	}

	name := team
	if teams, err := g.store.Teams(ctx); err == nil {
		for _, t := range teams {
			if t.Abbr == team {
				name = t.Name
				if t.Nick != "" && !strings.HasSuffix(name, t.Nick) {
					name = name + " " + t.Nick
				}
				break
			}
		}
	}

	parts := []string{fmt.Sprintf("**%s - %d Season Analysis**\n", name, season)}

	switch {
	case ti.OffensiveEPAPerPlay > 0.1:
		parts = append(parts, fmt.Sprintf("The %s boasted a highly efficient offense, averaging %.3f EPA per play.", name, ti.OffensiveEPAPerPlay))
	case ti.OffensiveEPAPerPlay < -0.05:
		parts = append(parts, fmt.Sprintf("The %s struggled offensively, posting a concerning %.3f EPA per play.", name, ti.OffensiveEPAPerPlay))
	default:
		parts = append(parts, fmt.Sprintf("The %s offense was adequate, generating %.3f EPA per play.", name, ti.OffensiveEPAPerPlay))
	}

	switch {
	case ti.PassingEPAPerPlay > ti.RushingEPAPerPlay+0.1:
		parts = append(parts, "Their aerial attack was particularly potent, significantly outperforming their ground game.")
	case ti.RushingEPAPerPlay > ti.PassingEPAPerPlay+0.05:
		parts = append(parts, "They established themselves as a run-first team, finding more success on the ground than through the air.")
	default:
		parts = append(parts, "They maintained a balanced offensive approach with both passing and rushing contributing.")
	}

	if ti.RedZoneEfficiency > 0.6 {
		parts = append(parts, fmt.Sprintf("In the red zone, they were lethal, converting %.1f%% of their opportunities into touchdowns.", ti.RedZoneEfficiency*100))
	} else if ti.RedZoneEfficiency < 0.4 {
		parts = append(parts, fmt.Sprintf("Red zone struggles plagued the team, managing only a %.1f%% touchdown conversion rate.", ti.RedZoneEfficiency*100))
	}

	switch {
	case ti.DefensiveEPAPerPlay > 0.05:
		parts = append(parts, "Defensively, they were dominant, consistently putting opponents in difficult situations.")
	case ti.DefensiveEPAPerPlay < -0.05:
		parts = append(parts, "Their defense was a liability, allowing opponents to move the ball with ease.")
	default:
		parts = append(parts, "Their defense was serviceable, providing adequate resistance to opposing offenses.")
	}

	if ti.ClutchPerformance > 0.15 {
		parts = append(parts, "When the stakes were highest, this team delivered, excelling in clutch situations.")
	} else if ti.ClutchPerformance < -0.1 {
		parts = append(parts, "Unfortunately, they often wilted under pressure, struggling in crucial moments.")
	}

	if ti.ImprovementTrajectory > 0.05 {
		parts = append(parts, "The team showed encouraging signs of improvement as the season progressed.")
	} else if ti.ImprovementTrajectory < -0.05 {
		parts = append(parts, "Concerning regression was evident as the season wore on.")
	}

	return strings.Join(parts, " "), nil
}
