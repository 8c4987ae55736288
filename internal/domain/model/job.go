package model

import (
	"time"

	"tree-service-leads/internal/domain"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed
}

// Step is the position of s on the queued/running/done progress track.
func (s JobStatus) Step() int {
	switch s {
	case JobStatusPending:
		return 1
	case JobStatusRunning:
		return 2
	case JobStatusSuccess, JobStatusFailed:
		return 3
	default:
		return 0
	}
}

// Label is the human-readable status shown while observing a job.
func (s JobStatus) Label() string {
	switch s {
	case JobStatusPending:
		return "Queued — waiting for worker"
	case JobStatusRunning:
		return "Running"
	case JobStatusSuccess:
		return "Done"
	case JobStatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// JobAction is the closed set of work the external worker knows how to run.
type JobAction string

const (
	ActionBuildSMSList        JobAction = "build_sms_list"
	ActionParseQualityLeads   JobAction = "parse_quality_leads"
	ActionRunCBC              JobAction = "run_cbc"
	ActionSendCampaignDryRun  JobAction = "send_campaign_dry_run"
	ActionSendCampaign        JobAction = "send_campaign"
	ActionSendWarmLeadMessage JobAction = "send_warm_lead_message"
	ActionSendSingleSMS       JobAction = "send_single_sms"
)

var JobActions = []JobAction{
	ActionBuildSMSList,
	ActionParseQualityLeads,
	ActionRunCBC,
	ActionSendCampaignDryRun,
	ActionSendCampaign,
	ActionSendWarmLeadMessage,
	ActionSendSingleSMS,
}

var jobActionLabels = map[JobAction]string{
	ActionBuildSMSList:        "Build SMS list",
	ActionParseQualityLeads:   "Parse quality leads",
	ActionRunCBC:              "Run CBC lookups",
	ActionSendCampaignDryRun:  "Send daily batch (dry run)",
	ActionSendCampaign:        "Send daily batch (for real)",
	ActionSendWarmLeadMessage: "Message warm leads",
	ActionSendSingleSMS:       "Send single SMS",
}

// ParseJobAction validates a raw action tag.
func ParseJobAction(s string) (JobAction, error) {
	a := JobAction(s)
	if _, ok := jobActionLabels[a]; !ok {
		return "", domain.Invalid(domain.MsgUnknownJobAction)
	}
	return a, nil
}

func (a JobAction) Label() string {
	if l, ok := jobActionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Job is a unit of deferred work. Only the external worker moves it past pending.
type Job struct {
	ID         string         `json:"id"`
	Action     JobAction      `json:"action"`
	Payload    map[string]any `json:"payload"`
	Status     JobStatus      `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	StartedAt  *time.Time     `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at"`
	Log        string         `json:"log"`
	Error      string         `json:"error"`
}

// NewJob builds a pending job for a known action.
func NewJob(action JobAction, payload map[string]any) (*Job, error) {
	if _, ok := jobActionLabels[action]; !ok {
		return nil, domain.Invalid(domain.MsgUnknownJobAction)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return &Job{
		ID:        uuid.NewString(),
		Action:    action,
		Payload:   payload,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}, nil
}
