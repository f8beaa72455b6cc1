package service

import (
	"context"
	"errors"
	"strings"

	"inc/app_error"
	"inc/config"
	"inc/metrics"
	"inc/repository"
	"inc/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegistrationService struct {
	db                   *gorm.DB
	events               *config.Events
	ticketRepository     *repository.TicketRepository
	projectRepository    *repository.ProjectRepository
	rosterRepository     *repository.RosterRepository
	techfiestaRepository *repository.TechfiestaRepository
	evaluationRepository *repository.EvaluationRepository
	fileService          *FileService
	notificationService  *NotificationService
}

func NewRegistrationService(db *gorm.DB, events *config.Events, fileService *FileService, notificationService *NotificationService) *RegistrationService {
	return &RegistrationService{
		db:                   db,
		events:               events,
		ticketRepository:     repository.NewTicketRepository(db),
		projectRepository:    repository.NewProjectRepository(db),
		rosterRepository:     repository.NewRosterRepository(db),
		techfiestaRepository: repository.NewTechfiestaRepository(db),
		evaluationRepository: repository.NewEvaluationRepository(db),
		fileService:          fileService,
		notificationService:  notificationService,
	}
}

type RegistrationStatus struct {
	Ticket    string  `json:"ticket"`
	Event     string  `json:"event"`
	StepNo    int     `json:"step_no"`
	PaymentId string  `json:"payment_id"`
	Pid       *string `json:"pid"`
	Completed bool    `json:"completed"`
}

type Registration struct {
	*repository.Project
	Members []*repository.EventMember `json:"members"`
}

// ProjectRecord is the operator view of one registered project.
type ProjectRecord struct {
	Registration
	Evaluations []*repository.Evaluation `json:"evaluations"`
}

type ProjectPatch struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Mode     string `json:"mode"`
	Domain   string `json:"domain"`
}

func NewTicketId(event *config.Event) string {
	return "INC-" + strings.ToUpper(event.Name[:1]) + utils.RandomString(12)
}

func (s *RegistrationService) countStep(eventName string, step string, err error) {
	event := "unknown"
	if e, ok := s.events.Get(eventName); ok {
		event = e.Name
	}
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(app_error.KindOf(err)))
	}
	metrics.RegistrationStepCounter.WithLabelValues(event, step, outcome).Inc()
}

func (s *RegistrationService) getTicket(ticketId string) (*repository.Ticket, error) {
	if ticketId == "" {
		return nil, app_error.NotFound("Ticket does not exist")
	}
	ticket, err := s.ticketRepository.GetTicket(ticketId)
	if err != nil {
		return nil, notFoundOr(err, "Ticket does not exist")
	}
	return ticket, nil
}

func checkMutable(ticket *repository.Ticket, event *config.Event) error {
	if ticket.IsTerminal() {
		return app_error.Conflict("Registration already completed using this ticket")
	}
	if event != nil && ticket.Event != event.Name {
		return app_error.ValidationFailed("ticket %s does not belong to %s", ticket.Ticket, event.Name)
	}
	return nil
}

// SubmitStep1 stores the project details. A missing or unknown ticket mints a new one.
func (s *RegistrationService) SubmitStep1(ctx context.Context, eventName string, ticketId string, payload repository.JSONMap) (id string, created bool, err error) {
	defer func() { s.countStep(eventName, "1", err) }()
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return "", false, err
	}
	if payload == nil {
		payload = repository.JSONMap{}
	}
	if err := decodePayload(payload, &projectDetails{}); err != nil {
		return "", false, err
	}

	if ticketId != "" {
		ticket, err := s.ticketRepository.GetTicket(ticketId)
		if err == nil {
			if err := checkMutable(ticket, event); err != nil {
				return "", false, err
			}
			if ticket.StepNo >= 4 {
				return "", false, app_error.Conflict("project details cannot change once payment was requested")
			}
			rows, err := s.ticketRepository.SaveStep1(ticket.Ticket, payload)
			if err != nil {
				return "", false, dependency(err)
			}
			if rows == 0 {
				return "", false, app_error.Conflict("project details cannot change once payment was requested")
			}
			return ticket.Ticket, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, dependency(err)
		}
	}

	ticket := &repository.Ticket{
		Ticket: NewTicketId(event),
		Event:  event.Name,
		Step1:  payload,
		Step2:  repository.Members{},
		StepNo: 1,
	}
	if err := s.ticketRepository.Create(ticket); err != nil {
		return "", false, dependency(err)
	}
	return ticket.Ticket, true, nil
}

// SubmitStep2 appends a member to the team. The temporary upload is always removed.
func (s *RegistrationService) SubmitStep2(ctx context.Context, eventName string, ticketId string, member repository.Member, file *UploadedFile) (id string, created bool, err error) {
	defer s.fileService.Discard(file)
	defer func() { s.countStep(eventName, "2", err) }()
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return "", false, err
	}
	member.Email = normalizeEmail(member.Email)
	member.Name = strings.TrimSpace(member.Name)
	member.Phone = strings.TrimSpace(member.Phone)
	if member.Email == "" || member.Name == "" {
		return "", false, app_error.ValidationFailed("member name and email are required")
	}

	registered, err := s.rosterRepository.IsRegistered(event.Name, member.Email)
	if err != nil {
		return "", false, dependency(err)
	}
	if registered {
		return "", false, app_error.Conflict("Email %s already registered for %s", member.Email, event.Name)
	}

	id = ticketId
	uploaded := ""
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := s.ticketRepository.WithTx(tx)
		var ticket *repository.Ticket
		if ticketId != "" {
			var err error
			ticket, err = tickets.GetTicketForUpdate(ticketId)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dependency(err)
			}
		}

		if ticket == nil {
			if !event.AutoCreateTicket {
				return app_error.NotFound("Ticket does not exist")
			}
			if err := s.attachFile(ctx, tx, &member, file, &uploaded); err != nil {
				return err
			}
			ticket = &repository.Ticket{
				Ticket: NewTicketId(event),
				Event:  event.Name,
				Step1:  repository.JSONMap{},
				Step2:  repository.Members{member},
				StepNo: 2,
			}
			if err := tickets.Create(ticket); err != nil {
				return dependency(err)
			}
			id = ticket.Ticket
			created = true
			return nil
		}

		if err := checkMutable(ticket, event); err != nil {
			return err
		}
		if ticket.StepNo >= 4 {
			return app_error.Conflict("members cannot change once payment was requested")
		}
		if len(ticket.Step2) >= event.TeamSize {
			return app_error.Conflict("Maximum number of members reached")
		}
		if ticket.Step2.IndexOf(member.Email) >= 0 {
			return app_error.Conflict("Duplicate email address found in a team")
		}
		if err := s.attachFile(ctx, tx, &member, file, &uploaded); err != nil {
			return err
		}
		members := append(ticket.Step2, member)
		return dependency(tickets.SaveMembers(ticket.Ticket, members))
	})
	if err != nil {
		// the files row rolled back with the ticket, the object has to go too
		s.fileService.Remove(ctx, uploaded)
		return "", false, err
	}
	return id, created, nil
}

func (s *RegistrationService) attachFile(ctx context.Context, tx *gorm.DB, member *repository.Member, file *UploadedFile, uploaded *string) error {
	if file == nil {
		return nil
	}
	key, err := s.fileService.Store(ctx, tx, member.Email, file)
	*uploaded = key
	if err != nil {
		return err
	}
	member.IDFile = key
	return nil
}

// SubmitStep3 stores the institution details. Home institution entries get the
// configured defaults merged over the submitted values.
func (s *RegistrationService) SubmitStep3(ctx context.Context, ticketId string, payload repository.JSONMap) (err error) {
	ticket, err := s.getTicket(ticketId)
	if err != nil {
		return err
	}
	defer func() { s.countStep(ticket.Event, "3", err) }()
	if err := checkMutable(ticket, nil); err != nil {
		return err
	}
	if ticket.StepNo >= 4 {
		return app_error.Conflict("institution details cannot change once payment was requested")
	}
	if ticket.StepNo < 2 || len(ticket.Step2) == 0 {
		return app_error.Conflict("Add at least one team member first")
	}
	if payload == nil {
		payload = repository.JSONMap{}
	}
	flags := institutionFlags{}
	if err := decodePayload(payload, &flags); err != nil {
		return err
	}
	step3 := payload.Clone()
	if flags.IsPICT {
		for key, value := range s.events.Institution {
			step3[key] = value
		}
	}
	rows, err := s.ticketRepository.SaveStep3(ticket.Ticket, step3)
	if err != nil {
		return dependency(err)
	}
	if rows == 0 {
		return app_error.Conflict("Registration steps not completed")
	}
	return nil
}

// ResolvePaymentId picks the payment id recorded for a registration and reports whether
// it is a fee waiver sentinel rather than a real transaction reference.
func ResolvePaymentId(sentinels config.PaymentSentinels, step1 repository.JSONMap, step3 repository.JSONMap, submitted repository.JSONMap) (string, bool, error) {
	project := projectDetails{}
	if err := decodePayload(step1, &project); err != nil {
		return "", false, err
	}
	institution := institutionFlags{}
	if err := decodePayload(step3, &institution); err != nil {
		return "", false, err
	}
	switch {
	case project.Techfiesta:
		return sentinels.Techfiesta, true, nil
	case institution.IsPICT:
		return sentinels.HomeInstitution, true, nil
	case institution.IsInternational:
		return sentinels.International, true, nil
	}

	payment := paymentDetails{}
	if err := decodePayload(submitted, &payment); err != nil {
		return "", false, err
	}
	paymentId := strings.TrimSpace(payment.PaymentId)
	if paymentId == "" {
		return "", false, app_error.ValidationFailed("payment_id is required")
	}
	for _, sentinel := range []string{sentinels.Techfiesta, sentinels.HomeInstitution, sentinels.International} {
		if strings.EqualFold(paymentId, sentinel) {
			return "", false, app_error.ValidationFailed("payment_id %s is reserved", paymentId)
		}
	}
	return paymentId, false, nil
}

// RequestPayment moves a ticket from step 3 to step 4 and records its payment id.
func (s *RegistrationService) RequestPayment(ctx context.Context, eventName string, ticketId string, payload repository.JSONMap) (err error) {
	defer func() { s.countStep(eventName, "4", err) }()
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	ticket, err := s.getTicket(ticketId)
	if err != nil {
		return err
	}
	if ticket.Event != event.Name {
		return app_error.ValidationFailed("ticket %s does not belong to %s", ticket.Ticket, event.Name)
	}
	if ticket.PaymentId != "" {
		if ticket.StepNo == repository.FinalStep {
			return app_error.Conflict("Registration already completed using this ticket")
		}
		return app_error.Conflict("Registration done using this ticket and payment under verification")
	}
	if ticket.StepNo != 3 || len(ticket.Step2) == 0 {
		return app_error.Conflict("Registration steps not completed")
	}
	if payload == nil {
		payload = repository.JSONMap{}
	}

	paymentId, waived, err := ResolvePaymentId(s.events.Payment, ticket.Step1, ticket.Step3, payload)
	if err != nil {
		return err
	}
	project := projectDetails{}
	if err := decodePayload(ticket.Step1, &project); err != nil {
		return err
	}
	step4 := payload.Clone()
	step4["payment_id"] = paymentId
	step4["team_id"] = project.TeamId

	rows, err := s.ticketRepository.WithTx(s.db.WithContext(ctx)).RequestPayment(ticket.Ticket, step4, paymentId, waived)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return app_error.Conflict("Transaction ID already used")
		}
		return dependency(err)
	}
	if rows == 0 {
		return app_error.Conflict("Registration steps not completed")
	}
	return nil
}

// ConfirmPayment completes a verified registration and returns the project id.
func (s *RegistrationService) ConfirmPayment(ctx context.Context, eventName string, ticketId string) (string, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return "", err
	}
	var ticket *repository.Ticket
	var project *repository.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := s.ticketRepository.WithTx(tx)
		var err error
		ticket, err = tickets.GetTicketForUpdate(ticketId)
		if err != nil {
			return notFoundOr(err, "Ticket does not exist")
		}
		if ticket.IsTerminal() {
			return app_error.Conflict("Registration already completed using this ticket")
		}
		if ticket.StepNo != 4 {
			return app_error.Conflict("Registration steps not completed")
		}
		if ticket.Event != event.Name {
			return app_error.ValidationFailed("ticket %s does not belong to %s", ticket.Ticket, event.Name)
		}

		details := projectDetails{}
		if err := decodePayload(ticket.Step1, &details); err != nil {
			return err
		}
		projects := s.projectRepository.WithTx(tx)
		pid, err := projects.NextPid(event.Name, event.Code)
		if err != nil {
			return dependency(err)
		}
		project = &repository.Project{
			Pid:         pid,
			Event:       event.Name,
			Ticket:      ticket.Ticket,
			Title:       strings.TrimSpace(details.Title),
			Abstract:    strings.TrimSpace(details.Abstract),
			Domain:      strings.TrimSpace(details.Domain),
			Mode:        strings.TrimSpace(details.Mode),
			PaymentId:   ticket.PaymentId,
			Institution: ticket.Step3,
		}
		if err := projects.Create(project); err != nil {
			return dependency(err)
		}
		if err := s.rosterRepository.WithTx(tx).AddMembers(event.Name, pid, ticket.Step2); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return app_error.Conflict("a member of this team is already registered for %s", event.Name)
			}
			return dependency(err)
		}
		if details.Techfiesta && details.TeamId != "" {
			if err := s.techfiestaRepository.WithTx(tx).MarkUsed(strings.ToUpper(details.TeamId), event.Name); err != nil {
				return dependency(err)
			}
		}
		rows, err := tickets.Complete(ticket.Ticket, pid)
		if err != nil {
			return dependency(err)
		}
		if rows == 0 {
			return app_error.Conflict("Registration steps not completed")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.RegistrationsCompleted.WithLabelValues(event.Name).Inc()
	log.WithFields(log.Fields{"event": event.Name, "pid": project.Pid, "ticket": ticket.Ticket}).Info("registration completed")
	s.notificationService.Notify(ctx, KindRegistrationConfirmed, confirmationRecipients(ticket.Step2), repository.JSONMap{
		"event":        event.Name,
		"event_title":  event.Title,
		"pid":          project.Pid,
		"title":        project.Title,
		"ticket":       ticket.Ticket,
		"whatsapp_url": event.WhatsappLink,
		"members":      memberSummaries(ticket.Step2),
	})
	return project.Pid, nil
}

// confirmationRecipients addresses the first two members of the team.
func confirmationRecipients(members repository.Members) []string {
	recipients := make([]string, 0, 2)
	for i, member := range members {
		if i == 2 {
			break
		}
		recipients = append(recipients, formatRecipient(member))
	}
	return recipients
}

func memberSummaries(members repository.Members) []any {
	out := make([]any, 0, len(members))
	for _, member := range members {
		out = append(out, map[string]any{"name": member.Name, "email": member.Email})
	}
	return out
}

// DeleteMember removes the member at index from the team.
func (s *RegistrationService) DeleteMember(ctx context.Context, ticketId string, index int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := s.ticketRepository.WithTx(tx)
		ticket, err := tickets.GetTicketForUpdate(ticketId)
		if err != nil {
			return notFoundOr(err, "Ticket does not exist")
		}
		if err := checkMutable(ticket, nil); err != nil {
			return err
		}
		if ticket.StepNo >= 4 {
			return app_error.Conflict("members cannot change once payment was requested")
		}
		if index < 0 || index >= len(ticket.Step2) {
			return app_error.ValidationFailed("member index %d out of range", index)
		}
		members := append(repository.Members{}, ticket.Step2[:index]...)
		members = append(members, ticket.Step2[index+1:]...)
		return dependency(tickets.SaveMembers(ticket.Ticket, members))
	})
}

// ReplaceMembers overwrites the team, used when members are imported from Techfiesta.
func (s *RegistrationService) ReplaceMembers(ctx context.Context, eventName string, ticketId string, members repository.Members) error {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	if len(members) > event.TeamSize {
		return app_error.ValidationFailed("a team has at most %d members", event.TeamSize)
	}
	cleaned := make(repository.Members, 0, len(members))
	for _, member := range members {
		member.Email = normalizeEmail(member.Email)
		member.Name = strings.TrimSpace(member.Name)
		if member.Email == "" || member.Name == "" {
			return app_error.ValidationFailed("member name and email are required")
		}
		if cleaned.IndexOf(member.Email) >= 0 {
			return app_error.ValidationFailed("Duplicate email address found in a team")
		}
		registered, err := s.rosterRepository.IsRegistered(event.Name, member.Email)
		if err != nil {
			return dependency(err)
		}
		if registered {
			return app_error.Conflict("Email %s already registered for %s", member.Email, event.Name)
		}
		cleaned = append(cleaned, member)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := s.ticketRepository.WithTx(tx)
		ticket, err := tickets.GetTicketForUpdate(ticketId)
		if err != nil {
			return notFoundOr(err, "Ticket does not exist")
		}
		if err := checkMutable(ticket, event); err != nil {
			return err
		}
		if ticket.StepNo >= 4 {
			return app_error.Conflict("members cannot change once payment was requested")
		}
		return dependency(tickets.SaveMembers(ticket.Ticket, cleaned))
	})
}

func (s *RegistrationService) GetTicket(ticketId string) (*repository.Ticket, error) {
	ticket, err := s.getTicket(ticketId)
	if err != nil {
		return nil, err
	}
	return s.linkTickets(ticket)[0], nil
}

func (s *RegistrationService) GetMembers(ticketId string) (repository.Members, error) {
	ticket, err := s.getTicket(ticketId)
	if err != nil {
		return nil, err
	}
	return s.fileService.LinkMembers(ticket.Step2), nil
}

// linkTickets swaps stored id document keys for signed links before tickets leave the service.
func (s *RegistrationService) linkTickets(tickets ...*repository.Ticket) []*repository.Ticket {
	for _, ticket := range tickets {
		s.fileService.LinkMembers(ticket.Step2)
	}
	return tickets
}

func (s *RegistrationService) linkEventMembers(members []*repository.EventMember) []*repository.EventMember {
	for _, member := range members {
		member.IDFile = s.fileService.Link(member.IDFile)
	}
	return members
}

func (s *RegistrationService) RegistrationStatus(ticketId string) (*RegistrationStatus, error) {
	ticket, err := s.getTicket(ticketId)
	if err != nil {
		return nil, err
	}
	return &RegistrationStatus{
		Ticket:    ticket.Ticket,
		Event:     ticket.Event,
		StepNo:    ticket.StepNo,
		PaymentId: ticket.PaymentId,
		Pid:       ticket.Pid,
		Completed: ticket.IsTerminal(),
	}, nil
}

func (s *RegistrationService) IsUserRegistered(eventName string, email string) (bool, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return false, err
	}
	registered, err := s.rosterRepository.IsRegistered(event.Name, normalizeEmail(email))
	return registered, dependency(err)
}

func (s *RegistrationService) PendingPayments(eventName string) ([]*repository.Ticket, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepository.GetTicketsForEventAtStep(event.Name, 4)
	if err != nil {
		return nil, dependency(err)
	}
	return s.linkTickets(tickets...), nil
}

func (s *RegistrationService) IncompleteRegistrations(eventName string) ([]*repository.Ticket, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepository.GetIncompleteTickets(event.Name)
	if err != nil {
		return nil, dependency(err)
	}
	return s.linkTickets(tickets...), nil
}

func (s *RegistrationService) TicketByPid(eventName string, pid string) (*repository.Ticket, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	ticket, err := s.ticketRepository.GetTicketByPid(event.Name, pid)
	if err != nil {
		return nil, notFoundOr(err, "no registration with pid %s", pid)
	}
	return s.linkTickets(ticket)[0], nil
}

func (s *RegistrationService) Registrations(eventName string) ([]*Registration, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepository.GetProjectsForEvent(event.Name)
	if err != nil {
		return nil, dependency(err)
	}
	members, err := s.rosterRepository.GetMembersForEvent(event.Name)
	if err != nil {
		return nil, dependency(err)
	}
	byPid := make(map[string][]*repository.EventMember)
	for _, member := range s.linkEventMembers(members) {
		byPid[member.Pid] = append(byPid[member.Pid], member)
	}
	registrations := make([]*Registration, 0, len(projects))
	for _, project := range projects {
		teamMembers := byPid[project.Pid]
		if teamMembers == nil {
			teamMembers = []*repository.EventMember{}
		}
		registrations = append(registrations, &Registration{Project: project, Members: teamMembers})
	}
	return registrations, nil
}

func (s *RegistrationService) RegistrationCounts() (map[string]int64, error) {
	counts, err := s.projectRepository.CountByEvent()
	if err != nil {
		return nil, dependency(err)
	}
	out := make(map[string]int64, len(s.events.Events))
	for _, name := range s.events.Names() {
		out[name] = counts[name]
	}
	return out, nil
}

func (s *RegistrationService) GetProject(eventName string, pid string) (*repository.Project, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepository.GetProject(event.Name, pid)
	if err != nil {
		return nil, notFoundOr(err, "Project does not exist")
	}
	return project, nil
}

// ProjectRecord collects a project with its team and the evaluations it received so far.
func (s *RegistrationService) ProjectRecord(eventName string, pid string) (*ProjectRecord, error) {
	project, err := s.GetProject(eventName, pid)
	if err != nil {
		return nil, err
	}
	members, err := s.rosterRepository.GetMembersForProject(project.Event, project.Pid)
	if err != nil {
		return nil, dependency(err)
	}
	evaluations, err := s.evaluationRepository.GetEvaluationsForProject(project.Event, project.Pid)
	if err != nil {
		return nil, dependency(err)
	}
	return &ProjectRecord{
		Registration: Registration{Project: project, Members: s.linkEventMembers(members)},
		Evaluations:  evaluations,
	}, nil
}

// UpdateProject applies the non-empty fields of patch; the rest keep their value.
func (s *RegistrationService) UpdateProject(ctx context.Context, eventName string, pid string, patch ProjectPatch) (*repository.Project, error) {
	project, err := s.GetProject(eventName, pid)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	for column, value := range map[string]string{
		"title":    patch.Title,
		"abstract": patch.Abstract,
		"mode":     patch.Mode,
		"domain":   patch.Domain,
	} {
		if value = strings.TrimSpace(value); value != "" {
			fields[column] = value
		}
	}
	if _, err := s.projectRepository.WithTx(s.db.WithContext(ctx)).UpdateFields(project.Event, project.Pid, fields); err != nil {
		return nil, dependency(err)
	}
	return s.GetProject(eventName, pid)
}

// TechfiestaMembers returns a pre-registered team unless an event of the same group used it.
func (s *RegistrationService) TechfiestaMembers(eventName string, teamId string) (*repository.TechfiestaTeam, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	teamId = strings.ToUpper(strings.TrimSpace(teamId))
	team, err := s.techfiestaRepository.GetTeam(teamId)
	if err != nil {
		return nil, notFoundOr(err, "Invalid Techfiesta Team ID.")
	}
	for _, used := range team.IsUsed {
		if used == event.Name {
			return nil, app_error.Conflict("Team %s already registered. Change Team ID to continue.", teamId)
		}
		usedEvent, ok := s.events.Get(used)
		if ok && event.TechfiestaGroup != "" && usedEvent.TechfiestaGroup == event.TechfiestaGroup {
			return nil, app_error.Conflict("Team %s already registered. Change Team ID to continue.", teamId)
		}
	}
	return team, nil
}
