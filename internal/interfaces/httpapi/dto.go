package httpapi

import (
	"context"

	"github.com/luigi1104/shotmap/internal/domain/report"
)

type per90DTO struct {
	XG    float64 `json:"xg"`
	Shots float64 `json:"shots"`
	NPXG  float64 `json:"npxg"`
	XGI   float64 `json:"xgi"`
}

type totalsDTO struct {
	Shots     int     `json:"shots"`
	Goals     int     `json:"goals"`
	XG        float64 `json:"xg"`
	XGPerShot float64 `json:"xgPerShot"`
}

type attributionDTO struct {
	Team   string `json:"team"`
	League string `json:"league"`
}

type shotDTO struct {
	Minute    int     `json:"minute"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XG        float64 `json:"xg"`
	Result    string  `json:"result"`
	Situation string  `json:"situation"`
}

type playerReportDTO struct {
	PlayerName   string           `json:"playerName"`
	Season       string           `json:"season"`
	TeamLabel    string           `json:"teamLabel"`
	Attributions []attributionDTO `json:"attributions"`
	Per90        per90DTO         `json:"per90"`
	Totals       totalsDTO        `json:"totals"`
	Shots        []shotDTO        `json:"shots"`
}

func reportToDTO(ctx context.Context, item report.PlayerReport) playerReportDTO {
	_, span := startSpan(ctx, "httpapi.reportToDTO")
	defer span.End()

	attributions := make([]attributionDTO, 0, len(item.Attributions))
	for _, a := range item.Attributions {
		attributions = append(attributions, attributionDTO{
			Team:   a.TeamName,
			League: a.LeagueLabel,
		})
	}

	shots := make([]shotDTO, 0, len(item.Shots))
	for _, s := range item.Shots {
		shots = append(shots, shotDTO{
			Minute:    s.Minute,
			X:         s.DisplayX(),
			Y:         s.DisplayY(),
			XG:        s.XG,
			Result:    string(s.Result),
			Situation: string(s.Situation),
		})
	}

	return playerReportDTO{
		PlayerName:   item.PlayerName,
		Season:       item.Season,
		TeamLabel:    item.AttributionString(),
		Attributions: attributions,
		Per90: per90DTO{
			XG:    item.Per90.XG,
			Shots: item.Per90.Shots,
			NPXG:  item.Per90.NPXG,
			XGI:   item.Per90.XGI,
		},
		Totals: totalsDTO{
			Shots:     item.Totals.Shots,
			Goals:     item.Totals.Goals,
			XG:        item.Totals.XG,
			XGPerShot: item.Totals.XGPerShot,
		},
		Shots: shots,
	}
}
