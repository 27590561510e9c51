package dto

import (
	"time"

	"resort/internal/domains/activity/model"
	"resort/shared"
)

type ActivityResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	IP        string `json:"ip"`
	Device    string `json:"device"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp"`
}

func (r *ActivityResponse) FromModel(activity model.LoginActivity) {
	r.ID = activity.ID
	r.Email = activity.Email
	r.Source = activity.Source
	r.IP = activity.IP
	r.Device = activity.Device
	r.Outcome = activity.Outcome
	r.Timestamp = activity.Timestamp.Format(time.RFC3339)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.LoginActivity, totalData, limit int) {
	r.Activities = make([]ActivityResponse, 0, len(models))

	for _, m := range models {
		res := ActivityResponse{}
		res.FromModel(m)

		r.Activities = append(r.Activities, res)
	}

	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
}
