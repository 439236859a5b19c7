package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/neuroguard/apimodel"
	"github.com/jrsteele09/neuroguard/assessment"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/routes"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) dashboardCommand(ctx context.Context) error {
	if !a.enter(routes.ScreenDashboard) {
		return nil
	}
	user := a.controller.Identity()

	history, err := a.controller.History(ctx, 0, apimodel.DashboardHistoryLimit)
	if err != nil {
		return err
	}
	s := assessment.Summarize(user, history)

	fmt.Fprintf(a.out, "Welcome back, %s\n\n", displayName(user))
	fmt.Fprintf(a.out, "Total assessments: %d\n", s.Total)
	fmt.Fprintf(a.out, "High risk results: %d\n", s.AtRisk)
	fmt.Fprintf(a.out, "Profile status:    %s\n\n", s.ProfileStatus)

	if len(s.Trend) == 0 {
		fmt.Fprintln(a.out, "Not enough data to display trends.")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEST\tDATE\tRESULT")
	for _, p := range s.Trend {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Date.Local().Format(timeLayout), p.Label)
	}
	return w.Flush()
}

func (a *App) profileCommand(ctx context.Context, args []string) error {
	if !a.enter(routes.ScreenProfile) {
		return nil
	}
	if len(args) > 0 && args[0] == "set" {
		return a.setProfile(ctx, args[1:])
	}

	user := a.controller.Identity()
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n\n", user.FullName, user.Email)
	if !assessment.HasDefaults(user) {
		fmt.Fprintln(a.out, "Personal defaults are not set. Run `neuroguard profile set --age=N --hbp=0|1`.")
		return nil
	}
	d := user.PersonalDefaults
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Age\t%g\n", *d.Age)
	fmt.Fprintf(w, "History of hypertension\t%s\n", yesNo(*d.HighBloodPressure == 1))
	return w.Flush()
}

func (a *App) setProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile set", flag.ContinueOnError)
	age := fs.Float64("age", 0, "age in years")
	hbp := fs.Int("hbp", -1, "history of hypertension, 0 or 1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *age <= 0 || (*hbp != 0 && *hbp != 1) {
		return errors.New("usage: neuroguard profile set --age=N --hbp=0|1")
	}

	if err := a.controller.UpdateDefaults(ctx, apimodel.PersonalDefaults{Age: age, HighBloodPressure: hbp}); err != nil {
		return err
	}
	if _, err := a.controller.Bootstrap(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Personal defaults saved.")
	return nil
}

func (a *App) assessCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assess", flag.ContinueOnError)
	modelName := fs.String("model", string(apimodel.DefaultModel), "logistic, random_forest or svm")
	risk := fs.Float64("risk", assessment.DefaultStrokeRiskPercentage, "stroke risk percentage 0-100")
	symptoms := fs.String("symptoms", "", "comma separated symptom keys")
	heart := fs.String("heart-disease", "", "0 or 1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.enter(routes.ScreenAssessment) {
		return nil
	}

	model, err := apimodel.ParseModelType(*modelName)
	if err != nil {
		return err
	}
	user := a.controller.Identity()
	input := assessment.NewInput(user)
	input.StrokeRiskPercentage = *risk
	for _, key := range strings.Split(*symptoms, ",") {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		if err := assessment.Toggle(&input, key); err != nil {
			return err
		}
	}
	switch *heart {
	case "":
	case "0", "1":
		v := apimodel.BinaryOption(0)
		if *heart == "1" {
			v = apimodel.Yes
		}
		input.HeartDisease = &v
	default:
		return errors.New("--heart-disease must be 0 or 1")
	}

	payload, err := assessment.Prepare(user, input)
	if apierrors.Is(err, apierrors.ErrDefaultsMissing) {
		fmt.Fprintln(a.out, "Please set up your profile defaults (Age and Hypertension history) before running an assessment.")
		a.navigator.Navigate(routes.ScreenProfile)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := a.controller.Predict(ctx, model, payload)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s\n", res.PredictionLabel)
	fmt.Fprintf(a.out, "Based on the %s model analysis.\n\n", strings.ReplaceAll(res.ModelUsed, "_", " "))
	fmt.Fprintf(a.out, "Risk probability: %s%%\n", apimodel.Percent(res.Probability.Risk()))
	fmt.Fprintf(a.out, "Safe probability: %s%%\n\n", apimodel.Percent(res.Probability.Safe()))
	a.printAdvice(assessment.Recommend(res.AtRisk()))
	return nil
}

func (a *App) printAdvice(advice assessment.Advice) {
	fmt.Fprintln(a.out, "Rekomendasi Kesehatan")
	for _, item := range advice.Items {
		fmt.Fprintf(a.out, "  - %s\n", item)
	}
	if advice.Notice != "" {
		fmt.Fprintf(a.out, "  ! %s\n", advice.Notice)
	}
	if len(advice.Telemedicine) > 0 {
		fmt.Fprintln(a.out, "\nKonsultasi Dokter Online")
		for _, t := range advice.Telemedicine {
			fmt.Fprintf(a.out, "  %s: %s\n", t.Name, t.URL)
		}
	}
}

func (a *App) historyCommand(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "show" {
		if len(args) < 2 {
			return errors.New("usage: neuroguard history show <id>")
		}
		if !a.enter(routes.ScreenHistory + "/" + args[1]) {
			return nil
		}
		return a.showHistory(ctx, args[1])
	}

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	skip := fs.Int("skip", 0, "entries to skip")
	limit := fs.Int("limit", apimodel.HistoryScreenLimit, "entries to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.enter(routes.ScreenHistory) {
		return nil
	}

	items, err := a.controller.History(ctx, *skip, *limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No assessments yet. Run `neuroguard assess` to start.")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tMODEL\tRESULT")
	for _, h := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.ID, h.Timestamp.Local().Format(timeLayout), h.ModelUsed, h.PredictionLabel)
	}
	return w.Flush()
}

func (a *App) showHistory(ctx context.Context, id string) error {
	d, err := a.controller.HistoryDetail(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s)\n", d.PredictionLabel, d.Timestamp.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "Model: %s\n", d.ModelUsed)
	fmt.Fprintf(a.out, "Risk probability: %s%%\n\n", apimodel.Percent(d.Probability.Risk()))

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Age\t%g\n", d.InputData.Age)
	fmt.Fprintf(w, "Stroke risk %%\t%s\n", strconv.FormatFloat(d.InputData.StrokeRiskPercentage, 'f', -1, 64))
	fmt.Fprintf(w, "Hypertension\t%s\n", yesNo(d.InputData.HighBloodPressure == apimodel.Yes))
	if d.InputData.HeartDisease != nil {
		fmt.Fprintf(w, "Heart disease\t%s\n", yesNo(*d.InputData.HeartDisease == apimodel.Yes))
	}
	for _, s := range assessment.Symptoms() {
		fmt.Fprintf(w, "%s\t%s\n", s.Label, yesNo(s.Value(&d.InputData) == apimodel.Yes))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	a.printAdvice(assessment.Recommend(d.AtRisk()))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
