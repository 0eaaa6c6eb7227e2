// Package dashboard serves the corporate analytics overview.
package dashboard

import "strings"

type Trend string

// Up reports whether the trend is a gain.
func (t Trend) Up() bool {
	return strings.HasPrefix(string(t), "+")
}

type StatCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Trend Trend  `json:"trend"`
	Up    bool   `json:"up"`
}

// SpendPoint is one month of gifting spend in whole rupees.
type SpendPoint struct {
	Month string `json:"month"`
	Spend int64  `json:"spend"`
}

type CampaignStatus string

const (
	StatusDelivering CampaignStatus = "Delivering"
	StatusDraft      CampaignStatus = "Draft"
	StatusInTransit  CampaignStatus = "In Transit"
	StatusDelivered  CampaignStatus = "Delivered"
)

type Campaign struct {
	Title  string         `json:"title"`
	Status CampaignStatus `json:"status"`
	Items  int            `json:"items"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Stats      []StatCard   `json:"stats"`
	Spend      []SpendPoint `json:"spend"`
	TotalSpend int64        `json:"totalSpend"`
	Campaigns  []Campaign   `json:"campaigns"`
}

// Source provides dashboard data.
type Source interface {
	Overview() Overview
}

// Static is the fixed sample dashboard.
type Static struct{}

func (Static) Overview() Overview {
	stats := []StatCard{
		{Key: "gifts_sent", Label: "Total Gifts Sent", Value: "1,284", Trend: "+12%"},
		{Key: "active_recipients", Label: "Active Recipients", Value: "458", Trend: "+5%"},
		{Key: "monthly_spend", Label: "Monthly Spend", Value: "₹12,45,000", Trend: "-2%"},
		{Key: "impact_score", Label: "Impact Score", Value: "98/100", Trend: "+1%"},
	}
	for i := range stats {
		stats[i].Up = stats[i].Trend.Up()
	}
	spend := []SpendPoint{
		{Month: "Jan", Spend: 400000},
		{Month: "Feb", Spend: 300000},
		{Month: "Mar", Spend: 200000},
		{Month: "Apr", Spend: 278000},
		{Month: "May", Spend: 189000},
		{Month: "Jun", Spend: 239000},
		{Month: "Jul", Spend: 349000},
	}
	var total int64
	for _, p := range spend {
		total += p.Spend
	}
	return Overview{
		Stats:      stats,
		Spend:      spend,
		TotalSpend: total,
		Campaigns: []Campaign{
			{Title: "New Hire Welcome Q3", Status: StatusDelivering, Items: 42},
			{Title: "Holiday Gourmet Hampers", Status: StatusDraft, Items: 120},
			{Title: "Client Appreciation Kit", Status: StatusInTransit, Items: 15},
			{Title: "Anniversary Wellness", Status: StatusDelivered, Items: 8},
		},
	}
}
