package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"inc/app_error"
	"inc/config"
	"inc/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentinels = config.PaymentSentinels{HomeInstitution: "PICT", International: "INTERNATIONAL", Techfiesta: "TECHFIESTA"}

func TestResolvePaymentId(t *testing.T) {
	tests := []struct {
		name      string
		step1     repository.JSONMap
		step3     repository.JSONMap
		submitted repository.JSONMap
		want      string
		waived    bool
		kind      app_error.Kind
	}{
		{name: "techfiesta team", step1: repository.JSONMap{"techfiesta": "1"}, want: "TECHFIESTA", waived: true},
		{name: "home institution", step3: repository.JSONMap{"isPICT": true}, want: "PICT", waived: true},
		{name: "international", step3: repository.JSONMap{"isInternational": "true"}, want: "INTERNATIONAL", waived: true},
		{name: "techfiesta wins over home institution", step1: repository.JSONMap{"techfiesta": true}, step3: repository.JSONMap{"isPICT": true}, want: "TECHFIESTA", waived: true},
		{name: "transaction reference", submitted: repository.JSONMap{"payment_id": " TXN-42 "}, want: "TXN-42"},
		{name: "missing reference", submitted: repository.JSONMap{}, kind: app_error.KindValidationFailed},
		{name: "reserved reference", submitted: repository.JSONMap{"payment_id": "pict"}, kind: app_error.KindValidationFailed},
		{name: "malformed flag", step3: repository.JSONMap{"isPICT": "maybe"}, kind: app_error.KindValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step1, step3, submitted := tt.step1, tt.step3, tt.submitted
			if step1 == nil {
				step1 = repository.JSONMap{}
			}
			if step3 == nil {
				step3 = repository.JSONMap{}
			}
			if submitted == nil {
				submitted = repository.JSONMap{}
			}
			id, waived, err := ResolvePaymentId(sentinels, step1, step3, submitted)
			if tt.kind != "" {
				assert.True(t, app_error.Is(err, tt.kind), "expected %s, got %v", tt.kind, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.waived, waived)
		})
	}
}

func project(title string) repository.JSONMap {
	return repository.JSONMap{
		"title":    title,
		"abstract": "An abstract   spanning\nseveral lines",
		"domain":   "Application Development",
		"mode":     "offline",
	}
}

func member(name string) repository.Member {
	return repository.Member{Name: name, Email: name + "@example.org", Phone: "9999999999"}
}

// registerUntilPayment runs steps 1 to 3 and returns the ticket.
func registerUntilPayment(t *testing.T, h *harness, event string, step3 repository.JSONMap, names ...string) string {
	t.Helper()
	ctx := context.Background()
	ticket, created, err := h.registrations.SubmitStep1(ctx, event, "", project("Smart irrigation"))
	require.NoError(t, err)
	require.True(t, created)
	for _, name := range names {
		_, _, err := h.registrations.SubmitStep2(ctx, event, ticket, member(name), nil)
		require.NoError(t, err)
	}
	require.NoError(t, h.registrations.SubmitStep3(ctx, ticket, step3))
	return ticket
}

func TestRegistrationFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ticket := registerUntilPayment(t, h, "concepts", repository.JSONMap{"college": "COEP"}, "asha", "ravi", "meera")
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", ticket, repository.JSONMap{"payment_id": "TXN-1001"}))

	pending, err := h.registrations.PendingPayments("concepts")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ticket, pending[0].Ticket)
	assert.Equal(t, "TXN-1001", pending[0].Step4["payment_id"])

	pid, err := h.registrations.ConfirmPayment(ctx, "concepts", ticket)
	require.NoError(t, err)
	assert.Equal(t, "CO-0001", pid)

	status, err := h.registrations.RegistrationStatus(ticket)
	require.NoError(t, err)
	assert.True(t, status.Completed)
	assert.Equal(t, repository.FinalStep, status.StepNo)
	require.NotNil(t, status.Pid)
	assert.Equal(t, pid, *status.Pid)

	registered, err := h.registrations.IsUserRegistered("concepts", "RAVI@example.org")
	require.NoError(t, err)
	assert.True(t, registered)

	registrations, err := h.registrations.Registrations("concepts")
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	assert.Equal(t, "Smart irrigation", registrations[0].Title)
	assert.Len(t, registrations[0].Members, 3)

	counts, err := h.registrations.RegistrationCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["concepts"])
	assert.Equal(t, int64(0), counts["impetus"])

	_, _, err = h.registrations.SubmitStep1(ctx, "concepts", ticket, project("Renamed"))
	assert.True(t, app_error.Is(err, app_error.KindConflict))
	err = h.registrations.RequestPayment(ctx, "concepts", ticket, repository.JSONMap{"payment_id": "TXN-1002"})
	assert.True(t, app_error.Is(err, app_error.KindConflict))

	// the confirmation goes to the first two members only
	id, err := h.queue.Next(ctx)
	require.NoError(t, err)
	require.NoError(t, h.notifications.Deliver(ctx, id))
	sent := h.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"asha <asha@example.org>", "ravi <ravi@example.org>"}, sent[0].To)
	assert.Contains(t, sent[0].Subject, pid)
	assert.Contains(t, sent[0].HTML, "Smart irrigation")
}

func TestSecondTeamGetsNextPid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i, names := range [][]string{{"a1", "a2"}, {"b1"}} {
		ticket := registerUntilPayment(t, h, "impetus", repository.JSONMap{"isPICT": true}, names...)
		require.NoError(t, h.registrations.RequestPayment(ctx, "impetus", ticket, repository.JSONMap{}))
		pid, err := h.registrations.ConfirmPayment(ctx, "impetus", ticket)
		require.NoError(t, err)
		assert.Equal(t, []string{"IM-0001", "IM-0002"}[i], pid)
	}
}

func TestSubmitStep2Conflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ticket, _, err := h.registrations.SubmitStep1(ctx, "pradnya", "", project("Compiler"))
	require.NoError(t, err)
	_, _, err = h.registrations.SubmitStep2(ctx, "pradnya", ticket, member("kiran"), nil)
	require.NoError(t, err)

	_, _, err = h.registrations.SubmitStep2(ctx, "pradnya", ticket, repository.Member{Name: "Kiran", Email: " KIRAN@example.org"}, nil)
	assert.True(t, app_error.Is(err, app_error.KindConflict), "duplicate email: %v", err)

	_, _, err = h.registrations.SubmitStep2(ctx, "pradnya", ticket, member("sana"), nil)
	require.NoError(t, err)
	_, _, err = h.registrations.SubmitStep2(ctx, "pradnya", ticket, member("omkar"), nil)
	assert.True(t, app_error.Is(err, app_error.KindConflict), "team size: %v", err)

	_, _, err = h.registrations.SubmitStep2(ctx, "pradnya", ticket, repository.Member{Name: "", Email: "x@example.org"}, nil)
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))

	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", "INC-UNKNOWN", member("zoya"), nil)
	assert.True(t, app_error.Is(err, app_error.KindNotFound))

	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", ticket, member("zoya"), nil)
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed), "ticket of another event: %v", err)

	members, err := h.registrations.GetMembers(ticket)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRegisteredMemberCannotJoinAnotherTeam(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "nova", repository.JSONMap{"isInternational": true}, "leela")
	require.NoError(t, h.registrations.RequestPayment(ctx, "nova", ticket, nil))
	_, err := h.registrations.ConfirmPayment(ctx, "nova", ticket)
	require.NoError(t, err)

	other, _, err := h.registrations.SubmitStep1(ctx, "nova", "", project("Other"))
	require.NoError(t, err)
	_, _, err = h.registrations.SubmitStep2(ctx, "nova", other, member("leela"), nil)
	assert.True(t, app_error.Is(err, app_error.KindConflict))

	// other events are unaffected
	conceptsTicket, _, err := h.registrations.SubmitStep1(ctx, "concepts", "", project("Other"))
	require.NoError(t, err)
	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", conceptsTicket, member("leela"), nil)
	assert.NoError(t, err)
}

func TestAutoCreatedTicket(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ticket, created, err := h.registrations.SubmitStep2(ctx, "pradnya", "", member("dev"), nil)
	require.NoError(t, err)
	assert.True(t, created)
	stored, err := h.registrations.GetTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.StepNo)
	assert.Equal(t, "pradnya", stored.Event)

	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", "", member("dev"), nil)
	assert.True(t, app_error.Is(err, app_error.KindNotFound))
}

func TestRequestPaymentRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	early, _, err := h.registrations.SubmitStep1(ctx, "concepts", "", project("Early"))
	require.NoError(t, err)
	err = h.registrations.RequestPayment(ctx, "concepts", early, repository.JSONMap{"payment_id": "TXN-1"})
	assert.True(t, app_error.Is(err, app_error.KindConflict), "steps not completed: %v", err)

	first := registerUntilPayment(t, h, "concepts", repository.JSONMap{}, "p1")
	second := registerUntilPayment(t, h, "impetus", repository.JSONMap{}, "p2")
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", first, repository.JSONMap{"payment_id": "TXN-7"}))
	err = h.registrations.RequestPayment(ctx, "impetus", second, repository.JSONMap{"payment_id": "TXN-7"})
	assert.True(t, app_error.Is(err, app_error.KindConflict), "reused transaction: %v", err)

	err = h.registrations.RequestPayment(ctx, "concepts", first, repository.JSONMap{"payment_id": "TXN-8"})
	assert.True(t, app_error.Is(err, app_error.KindConflict), "under verification: %v", err)

	// fee waivers share their sentinel
	home1 := registerUntilPayment(t, h, "concepts", repository.JSONMap{"isPICT": true}, "h1")
	home2 := registerUntilPayment(t, h, "concepts", repository.JSONMap{"isPICT": "1"}, "h2")
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", home1, nil))
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", home2, nil))
	stored, err := h.registrations.GetTicket(home2)
	require.NoError(t, err)
	assert.Equal(t, "PICT", stored.PaymentId)
	assert.True(t, stored.PaymentWaived)
	assert.Equal(t, "Pune Institute of Computer Technology", stored.Step3["college"])
}

func TestConcurrentConfirmPayment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "concepts", repository.JSONMap{}, "x1", "x2")
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", ticket, repository.JSONMap{"payment_id": "TXN-RACE"}))

	const attempts = 5
	results := make([]error, attempts)
	wg := sync.WaitGroup{}
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = h.registrations.ConfirmPayment(ctx, "concepts", ticket)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, app_error.Is(err, app_error.KindConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	registrations, err := h.registrations.Registrations("concepts")
	require.NoError(t, err)
	assert.Len(t, registrations, 1)
}

func TestDeleteAndReplaceMembers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket, _, err := h.registrations.SubmitStep1(ctx, "concepts", "", project("Drones"))
	require.NoError(t, err)
	for _, name := range []string{"m1", "m2", "m3"} {
		_, _, err := h.registrations.SubmitStep2(ctx, "concepts", ticket, member(name), nil)
		require.NoError(t, err)
	}

	err = h.registrations.DeleteMember(ctx, ticket, 3)
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))
	require.NoError(t, h.registrations.DeleteMember(ctx, ticket, 1))
	members, err := h.registrations.GetMembers(ticket)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m1@example.org", members[0].Email)
	assert.Equal(t, "m3@example.org", members[1].Email)

	err = h.registrations.ReplaceMembers(ctx, "concepts", ticket, repository.Members{member("n1"), member("n1")})
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))
	require.NoError(t, h.registrations.ReplaceMembers(ctx, "concepts", ticket, repository.Members{member("n1"), member("n2")}))
	members, err = h.registrations.GetMembers(ticket)
	require.NoError(t, err)
	assert.Equal(t, "n1@example.org", members[0].Email)

	require.NoError(t, h.registrations.SubmitStep3(ctx, ticket, repository.JSONMap{}))
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", ticket, repository.JSONMap{"payment_id": "TXN-55"}))
	err = h.registrations.DeleteMember(ctx, ticket, 0)
	assert.True(t, app_error.Is(err, app_error.KindConflict))
}

func tempUpload(t *testing.T, fileName string) *UploadedFile {
	t.Helper()
	tmp, err := os.CreateTemp("", "id-*.pdf")
	require.NoError(t, err)
	_, err = tmp.WriteString("%PDF-1.4 id")
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	return &UploadedFile{Path: tmp.Name(), FileName: fileName, Mime: "application/pdf", Size: 11}
}

func TestSubmitStep2StoresIdDocument(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket, _, err := h.registrations.SubmitStep1(ctx, "concepts", "", project("Vision"))
	require.NoError(t, err)

	upload := tempUpload(t, "aadhar.pdf")
	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", ticket, member("tara"), upload)
	require.NoError(t, err)

	_, statErr := os.Stat(upload.Path)
	assert.True(t, os.IsNotExist(statErr), "temporary upload should be removed")
	require.Len(t, h.store.uploads, 1)
	assert.Equal(t, "ids", h.store.uploads[0].Prefix)

	// only the object key is persisted, readers get a signed link
	stored, err := repository.NewTicketRepository(pg.DB).GetTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, "ids/aadhar.pdf", stored.Step2[0].IDFile)
	members, err := h.registrations.GetMembers(ticket)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.org/ids/aadhar.pdf?X-Amz-Expires=900", members[0].IDFile)

	file, err := NewFileService(pg.DB, h.store).GetFile("tara@example.org")
	require.NoError(t, err)
	assert.Equal(t, "aadhar.pdf", file.FileName)
	assert.Equal(t, "https://files.example.org/ids/aadhar.pdf?X-Amz-Expires=900", file.Url)
}

func TestSubmitStep2RollbackRemovesUpload(t *testing.T) {
	h := newHarness(t)
	ticket, _, err := h.registrations.SubmitStep1(context.Background(), "concepts", "", project("Sonar"))
	require.NoError(t, err)

	// the request ends while the document is uploading, so the transaction cannot commit
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.store.onUpload = cancel
	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", ticket, member("neha"), tempUpload(t, "neha-id.pdf"))
	require.Error(t, err)

	require.Len(t, h.store.uploads, 1)
	assert.Equal(t, []string{"ids/neha-id.pdf"}, h.store.deleted)
	_, err = NewFileService(pg.DB, h.store).GetFile("neha@example.org")
	assert.True(t, app_error.Is(err, app_error.KindNotFound), "files row must roll back: %v", err)
	members, err := h.registrations.GetMembers(ticket)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestNewTicketId(t *testing.T) {
	events := testEvents(t)
	for name, pattern := range map[string]string{
		"concepts": `^INC-C[A-Za-z0-9]{12}$`,
		"pradnya":  `^INC-P[A-Za-z0-9]{12}$`,
	} {
		event, ok := events.Get(name)
		require.True(t, ok)
		assert.Regexp(t, pattern, NewTicketId(event))
	}
}

func TestStepNumberNeverDecreases(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "concepts", repository.JSONMap{"college": "COEP"}, "ira", "kabir")
	assert.Regexp(t, `^INC-C[A-Za-z0-9]{12}$`, ticket)

	stepNo := func() int {
		t.Helper()
		stored, err := h.registrations.GetTicket(ticket)
		require.NoError(t, err)
		return stored.StepNo
	}
	_, created, err := h.registrations.SubmitStep1(ctx, "concepts", ticket, project("Renamed"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 3, stepNo())
	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", ticket, member("lina"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stepNo())
	require.NoError(t, h.registrations.SubmitStep3(ctx, ticket, repository.JSONMap{"college": "VIT"}))
	assert.Equal(t, 3, stepNo())

	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", ticket, repository.JSONMap{"payment_id": "TXN-77"}))
	_, _, err = h.registrations.SubmitStep1(ctx, "concepts", ticket, project("Late rename"))
	assert.True(t, app_error.Is(err, app_error.KindConflict), "step 1 after payment request: %v", err)
	err = h.registrations.SubmitStep3(ctx, ticket, repository.JSONMap{"college": "MIT"})
	assert.True(t, app_error.Is(err, app_error.KindConflict), "step 3 after payment request: %v", err)

	stored, err := h.registrations.GetTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.StepNo)
	assert.Equal(t, "Renamed", stored.Step1["title"])
	assert.Equal(t, "VIT", stored.Step3["college"])
	assert.Len(t, stored.Step2, 3)
}

func TestStep3NeedsMembers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket, _, err := h.registrations.SubmitStep1(ctx, "concepts", "", project("Empty team"))
	require.NoError(t, err)

	err = h.registrations.SubmitStep3(ctx, ticket, repository.JSONMap{"isPICT": true})
	assert.True(t, app_error.Is(err, app_error.KindConflict), "step 3 before members: %v", err)
	err = h.registrations.RequestPayment(ctx, "concepts", ticket, nil)
	assert.True(t, app_error.Is(err, app_error.KindConflict), "payment before step 3: %v", err)
	_, err = h.registrations.ConfirmPayment(ctx, "concepts", ticket)
	assert.True(t, app_error.Is(err, app_error.KindConflict))

	// a team emptied after step 3 still cannot request payment
	_, _, err = h.registrations.SubmitStep2(ctx, "concepts", ticket, member("solo"), nil)
	require.NoError(t, err)
	require.NoError(t, h.registrations.SubmitStep3(ctx, ticket, repository.JSONMap{"isPICT": true}))
	require.NoError(t, h.registrations.DeleteMember(ctx, ticket, 0))
	err = h.registrations.RequestPayment(ctx, "concepts", ticket, nil)
	assert.True(t, app_error.Is(err, app_error.KindConflict), "payment with an empty team: %v", err)

	stored, err := h.registrations.GetTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StepNo)
	assert.Empty(t, stored.PaymentId)
	assert.Nil(t, stored.Pid)
}

func TestConfirmPaymentBeforeRequest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "concepts", repository.JSONMap{}, "om")

	_, err := h.registrations.ConfirmPayment(ctx, "concepts", ticket)
	assert.True(t, app_error.Is(err, app_error.KindConflict), "%v", err)

	stored, err := h.registrations.GetTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StepNo)
	assert.Empty(t, stored.PaymentId)
	assert.Nil(t, stored.Pid)
	registrations, err := h.registrations.Registrations("concepts")
	require.NoError(t, err)
	assert.Empty(t, registrations)
}

func TestProjectRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "nova", repository.JSONMap{"isInternational": true}, "zara", "yash")
	require.NoError(t, h.registrations.RequestPayment(ctx, "nova", ticket, nil))
	pid, err := h.registrations.ConfirmPayment(ctx, "nova", ticket)
	require.NoError(t, err)

	record, err := h.registrations.ProjectRecord("nova", pid)
	require.NoError(t, err)
	assert.Equal(t, pid, record.Pid)
	require.Len(t, record.Members, 2)
	assert.Equal(t, "zara@example.org", record.Members[0].Email)
	assert.Empty(t, record.Evaluations)

	seedJudges(t, "nova", "NO-JA")
	_, err = NewEvaluationService(pg.DB, h.events).EvaluateProject(ctx, "nova", EvaluationInput{
		Pid: pid, Jid: "NO-JA", Scores: repository.JSONMap{"innovation": 9},
	})
	require.NoError(t, err)
	record, err = h.registrations.ProjectRecord("nova", pid)
	require.NoError(t, err)
	require.Len(t, record.Evaluations, 1)
	assert.Equal(t, 9.0, record.Evaluations[0].Total)

	_, err = h.registrations.ProjectRecord("concepts", pid)
	assert.True(t, app_error.Is(err, app_error.KindNotFound))
}

func TestTechfiestaMembers(t *testing.T) {
	h := newHarness(t)
	teams := repository.NewTechfiestaRepository(pg.DB)
	require.NoError(t, teams.Save(&repository.TechfiestaTeam{TeamId: "TF-100", Members: repository.Members{member("t1")}}))
	require.NoError(t, teams.MarkUsed("TF-100", "concepts"))

	_, err := h.registrations.TechfiestaMembers("concepts", "tf-100")
	assert.True(t, app_error.Is(err, app_error.KindConflict))
	_, err = h.registrations.TechfiestaMembers("impetus", "TF-100")
	assert.True(t, app_error.Is(err, app_error.KindConflict), "same techfiesta group")

	team, err := h.registrations.TechfiestaMembers("nova", "TF-100")
	require.NoError(t, err)
	assert.Equal(t, "t1@example.org", team.Members[0].Email)

	_, err = h.registrations.TechfiestaMembers("nova", "TF-404")
	assert.True(t, app_error.Is(err, app_error.KindNotFound))
}

func TestUpdateProject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := registerUntilPayment(t, h, "concepts", repository.JSONMap{"isPICT": true}, "u1")
	require.NoError(t, h.registrations.RequestPayment(ctx, "concepts", ticket, nil))
	pid, err := h.registrations.ConfirmPayment(ctx, "concepts", ticket)
	require.NoError(t, err)

	updated, err := h.registrations.UpdateProject(ctx, "concepts", pid, ProjectPatch{Title: "  Precision farming "})
	require.NoError(t, err)
	assert.Equal(t, "Precision farming", updated.Title)
	assert.Equal(t, "offline", updated.Mode)

	_, err = h.registrations.UpdateProject(ctx, "concepts", "CO-9999", ProjectPatch{Title: "x"})
	assert.True(t, app_error.Is(err, app_error.KindNotFound))
}
