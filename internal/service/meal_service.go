package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/internal/aggregator"
	"github.com/mmynk/macrotrack/internal/analysis"
	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/grouping"
	"github.com/mmynk/macrotrack/internal/journal"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
	"github.com/mmynk/macrotrack/internal/targets"
	"github.com/mmynk/macrotrack/pkg/api"
	"github.com/mmynk/macrotrack/pkg/api/apiconnect"
)

var _ apiconnect.MealServiceHandler = (*MealService)(nil)

// MealService implements the Connect MealService.
type MealService struct {
	journal  *journal.Journal
	engine   *grouping.Engine
	agg      *aggregator.Aggregator
	profiles storage.ProfileStore
	cal      calendar.Calendar

	now func() time.Time
}

// NewMealService creates a MealService.
func NewMealService(j *journal.Journal, engine *grouping.Engine, agg *aggregator.Aggregator, profiles storage.ProfileStore, cal calendar.Calendar) *MealService {
	return &MealService{
		journal:  j,
		engine:   engine,
		agg:      agg,
		profiles: profiles,
		cal:      cal,
		now:      time.Now,
	}
}

// day parses an ISO date; empty means today.
func (s *MealService) day(op, date string) (time.Time, error) {
	if date == "" {
		return s.now(), nil
	}
	t, err := s.cal.Parse(date)
	if err != nil {
		return time.Time{}, errs.Validation(op, "%v", err)
	}
	return t, nil
}

func (s *MealService) placement(op, date, groupName string) (journal.Placement, error) {
	if date == "" {
		return journal.Placement{GroupName: groupName}, nil
	}
	day, err := s.day(op, date)
	if err != nil {
		return journal.Placement{}, err
	}
	return journal.Placement{Day: day, GroupName: groupName}, nil
}

// LogEntry records a manually entered meal.
func (s *MealService) LogEntry(ctx context.Context, req *connect.Request[api.LogEntryRequest]) (*connect.Response[api.LogEntryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LogEntry request received", "user_id", userID, "date", req.Msg.Date, "group_name", req.Msg.GroupName)

	p, err := s.placement("LogEntry", req.Msg.Date, req.Msg.GroupName)
	if err != nil {
		return nil, connectError(err)
	}

	entry, err := s.journal.LogManual(ctx, userID, journal.ManualEntry{
		Description: req.Msg.Description,
		Macros:      fromAPIMacros(req.Msg.Macros),
		ImageURL:    req.Msg.ImageUrl,
		Placement:   p,
	})
	if err != nil {
		slog.Error("LogEntry failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.LogEntryResponse{Entry: s.toAPIEntry(entry)}), nil
}

// LogQuickItem records a quantity of a saved quick item.
func (s *MealService) LogQuickItem(ctx context.Context, req *connect.Request[api.LogQuickItemRequest]) (*connect.Response[api.LogQuickItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LogQuickItem request received", "user_id", userID, "quick_item_id", req.Msg.QuickItemId, "quantity", req.Msg.Quantity)

	p, err := s.placement("LogQuickItem", req.Msg.Date, req.Msg.GroupName)
	if err != nil {
		return nil, connectError(err)
	}

	entry, err := s.journal.LogQuickItem(ctx, userID, journal.QuickItemLog{
		QuickItemID: req.Msg.QuickItemId,
		Quantity:    req.Msg.Quantity,
		Placement:   p,
	})
	if err != nil {
		slog.Error("LogQuickItem failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.LogQuickItemResponse{Entry: s.toAPIEntry(entry)}), nil
}

// AnalyzeAndLog estimates a photo or description with the analyzer and
// records the result.
func (s *MealService) AnalyzeAndLog(ctx context.Context, req *connect.Request[api.AnalyzeAndLogRequest]) (*connect.Response[api.AnalyzeAndLogResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("AnalyzeAndLog request received", "user_id", userID, "photo", len(msg.Image) > 0, "people_sharing", msg.PeopleSharing)

	p, err := s.placement("AnalyzeAndLog", msg.Date, msg.GroupName)
	if err != nil {
		return nil, connectError(err)
	}

	in := journal.AnalyzeInput{
		Request: analysis.Request{
			Image:      msg.Image,
			MimeType:   msg.MimeType,
			Text:       msg.Text,
			Hints:      msg.Hints,
			Exclusions: msg.Exclusions,
		},
		ImageURL:  msg.ImageUrl,
		Placement: p,
	}
	if msg.PeopleSharing != 0 || msg.MyPortion != 0 {
		in.Share = &journal.Share{MyPortion: msg.MyPortion, PeopleSharing: msg.PeopleSharing}
	}

	entry, err := s.journal.LogAnalyzed(ctx, userID, in)
	if err != nil {
		slog.Error("AnalyzeAndLog failed", "user_id", userID, "error", err)
		if errs.KindOf(err) == errs.KindUnknown && ctx.Err() == nil {
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AnalyzeAndLogResponse{Entry: s.toAPIEntry(entry)}), nil
}

// CorrectEntry applies a value correction.
func (s *MealService) CorrectEntry(ctx context.Context, req *connect.Request[api.CorrectEntryRequest]) (*connect.Response[api.CorrectEntryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CorrectEntry request received", "user_id", userID, "entry_id", msg.EntryId)

	patch := models.EntryPatch{
		Description: msg.Description,
		Quantity:    msg.Quantity,
		Protein:     msg.Protein,
		Carbs:       msg.Carbs,
		Fat:         msg.Fat,
	}
	if msg.Calories != nil {
		calories := int(*msg.Calories)
		patch.Calories = &calories
	}
	if msg.Date != nil {
		day, err := s.day("CorrectEntry", *msg.Date)
		if err != nil {
			return nil, connectError(err)
		}
		patch.LoggedAt = &day
	}

	entry, err := s.journal.Correct(ctx, userID, msg.EntryId, patch)
	if err != nil {
		slog.Error("CorrectEntry failed", "user_id", userID, "entry_id", msg.EntryId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CorrectEntryResponse{Entry: s.toAPIEntry(entry)}), nil
}

// DeleteEntry removes an entry, demoting a lone remaining group member.
func (s *MealService) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteEntry request received", "user_id", userID, "entry_id", req.Msg.EntryId)

	if err := s.engine.DeleteEntry(ctx, userID, req.Msg.EntryId); err != nil {
		slog.Error("DeleteEntry failed", "user_id", userID, "entry_id", req.Msg.EntryId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteEntryResponse{}), nil
}

// GetDay returns a day's grouped meals, its summary and progress against the
// user's targets.
func (s *MealService) GetDay(ctx context.Context, req *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetDay request received", "user_id", userID, "date", req.Msg.Date)

	date, err := s.day("GetDay", req.Msg.Date)
	if err != nil {
		return nil, connectError(err)
	}

	day, err := s.agg.LoadGroupedDay(ctx, userID, date)
	if err != nil {
		slog.Error("GetDay failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.GetDayResponse{
		Meals:   s.toAPIMeals(day.Meals),
		Summary: toAPISummary(day.Summary),
	}

	t, err := s.profiles.GetTargets(ctx, userID)
	switch {
	case err == nil:
		resp.Progress = toAPIProgress(targets.Progress(day.Summary.Totals, *t))
	case errors.Is(err, storage.ErrNotFound):
		// No profile saved yet.
	default:
		slog.Error("GetDay failed to load targets", "user_id", userID, "error", err)
		return nil, connectError(storage.Classify("GetDay", err))
	}

	return connect.NewResponse(resp), nil
}

// GetRange returns one summary per day of an inclusive range of at most
// seven days.
func (s *MealService) GetRange(ctx context.Context, req *connect.Request[api.GetRangeRequest]) (*connect.Response[api.GetRangeResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetRange request received", "user_id", userID, "start", req.Msg.StartDate, "end", req.Msg.EndDate)

	start, err := s.cal.Parse(req.Msg.StartDate)
	if err != nil {
		return nil, connectError(errs.Validation("GetRange", "%v", err))
	}
	end, err := s.cal.Parse(req.Msg.EndDate)
	if err != nil {
		return nil, connectError(errs.Validation("GetRange", "%v", err))
	}

	summaries, err := s.agg.AggregateRange(ctx, userID, start, end)
	if err != nil {
		slog.Error("GetRange failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	days := make([]*api.DailySummary, len(summaries))
	for i, d := range summaries {
		days[i] = toAPISummary(d)
	}
	return connect.NewResponse(&api.GetRangeResponse{Days: days}), nil
}

// CreateGroup groups the listed entries under a new name.
func (s *MealService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.GroupName, "entries", len(req.Msg.EntryIds))

	groupID, err := s.engine.CreateGroup(ctx, userID, req.Msg.EntryIds, req.Msg.GroupName)
	if err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CreateGroupResponse{GroupId: groupID}), nil
}

// AddToGroup moves entries into an existing group.
func (s *MealService) AddToGroup(ctx context.Context, req *connect.Request[api.AddToGroupRequest]) (*connect.Response[api.AddToGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddToGroup request received", "user_id", userID, "group_id", req.Msg.GroupId, "entries", len(req.Msg.EntryIds))

	total, err := s.engine.AddToGroup(ctx, userID, req.Msg.EntryIds, req.Msg.GroupId)
	if err != nil {
		slog.Error("AddToGroup failed", "user_id", userID, "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AddToGroupResponse{TotalItems: int32(total)}), nil
}

// FindGroupByName looks up the day's group with a label.
func (s *MealService) FindGroupByName(ctx context.Context, req *connect.Request[api.FindGroupByNameRequest]) (*connect.Response[api.FindGroupByNameResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("FindGroupByName request received", "user_id", userID, "name", req.Msg.GroupName, "date", req.Msg.Date)

	date, err := s.day("FindGroupByName", req.Msg.Date)
	if err != nil {
		return nil, connectError(err)
	}

	groupID, found, err := s.engine.FindOrCreateGroupByName(ctx, userID, req.Msg.GroupName, date)
	if err != nil {
		slog.Error("FindGroupByName failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.FindGroupByNameResponse{GroupId: groupID, Found: found}), nil
}

// RemoveFromGroup demotes one entry to a singleton.
func (s *MealService) RemoveFromGroup(ctx context.Context, req *connect.Request[api.RemoveFromGroupRequest]) (*connect.Response[api.RemoveFromGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveFromGroup request received", "user_id", userID, "entry_id", req.Msg.EntryId)

	if err := s.engine.RemoveFromGroup(ctx, userID, req.Msg.EntryId); err != nil {
		slog.Error("RemoveFromGroup failed", "user_id", userID, "entry_id", req.Msg.EntryId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.RemoveFromGroupResponse{}), nil
}

// DissolveGroup ungroups every member of a group.
func (s *MealService) DissolveGroup(ctx context.Context, req *connect.Request[api.DissolveGroupRequest]) (*connect.Response[api.DissolveGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DissolveGroup request received", "user_id", userID, "group_id", req.Msg.GroupId)

	if err := s.engine.DissolveGroup(ctx, userID, req.Msg.GroupId); err != nil {
		slog.Error("DissolveGroup failed", "user_id", userID, "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DissolveGroupResponse{}), nil
}

// DeleteGroup deletes a group and all of its entries.
func (s *MealService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "user_id", userID, "group_id", req.Msg.GroupId)

	if err := s.engine.DeleteGroup(ctx, userID, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "user_id", userID, "group_id", req.Msg.GroupId, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupingOptions lists what an entry could be grouped with on its day.
func (s *MealService) GetGroupingOptions(ctx context.Context, req *connect.Request[api.GetGroupingOptionsRequest]) (*connect.Response[api.GetGroupingOptionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupingOptions request received", "user_id", userID, "entry_id", req.Msg.EntryId, "date", req.Msg.Date)

	date, err := s.day("GetGroupingOptions", req.Msg.Date)
	if err != nil {
		return nil, connectError(err)
	}

	day, err := s.agg.LoadGroupedDay(ctx, userID, date)
	if err != nil {
		slog.Error("GetGroupingOptions failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	ungrouped, groups := grouping.Options(day.Meals, req.Msg.EntryId)
	return connect.NewResponse(&api.GetGroupingOptionsResponse{
		Ungrouped: s.toAPIEntries(ungrouped),
		Groups:    toAPIGroupSummaries(groups),
	}), nil
}
