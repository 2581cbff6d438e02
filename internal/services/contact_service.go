package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rmarin/portfolio-be/internal/models"
)

// Notifier delivers a best-effort notification about a new contact
// message. Failures never fail the submission.
type Notifier interface {
	NotifyNewContact(msg models.ContactMessage) error
}

// ContactServiceProvider defines the interface for contact message services.
type ContactServiceProvider interface {
	Submit(name, email, subject, message string) (models.ContactMessage, error)
	List(callerID string) ([]models.ContactMessage, error)
	UpdateStatus(id, callerID, status string) (models.ContactMessage, error)
}

// ContactService provides business logic for the contact inbox.
type ContactService struct {
	db          *sql.DB
	notifier    Notifier
	notifyEmail string
}

// NewContactService creates a new ContactService. notifier may be nil when
// notifications are not configured.
func NewContactService(db *sql.DB, notifier Notifier, notifyEmail string) *ContactService {
	return &ContactService{db: db, notifier: notifier, notifyEmail: notifyEmail}
}

const contactColumns = "id, name, email, subject, message, status, notification_sent, notification_email, created_at, updated_at"

func scanContact(scanner interface{ Scan(...interface{}) error }) (models.ContactMessage, error) {
	var msg models.ContactMessage
	var notificationEmail sql.NullString
	err := scanner.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message,
		&msg.Status, &msg.NotificationSent, &notificationEmail, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return msg, err
	}
	msg.NotificationEmail = notificationEmail.String
	return msg, nil
}

// getByID retrieves a single contact message.
func (s *ContactService) getByID(id string) (models.ContactMessage, error) {
	row := s.db.QueryRow("SELECT "+contactColumns+" FROM contact_messages WHERE id = ?", id)
	msg, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ContactMessage{}, fmt.Errorf("contact message %s: %w", id, ErrNotFound)
		}
		return models.ContactMessage{}, err
	}
	return msg, nil
}

// Submit stores a new contact message and attempts one notification. The
// insert is durable regardless of the notification outcome;
// notificationSent only flips to true when the notifier reports success.
func (s *ContactService) Submit(name, email, subject, message string) (models.ContactMessage, error) {
	if name == "" || email == "" || subject == "" || message == "" {
		return models.ContactMessage{}, fmt.Errorf("all contact fields are required: %w", ErrBadRequest)
	}

	msg := models.ContactMessage{
		ID:                uuid.New().String(),
		Name:              name,
		Email:             email,
		Subject:           subject,
		Message:           message,
		Status:            models.ContactStatusNew,
		NotificationEmail: s.notifyEmail,
	}

	stmt, err := s.db.Prepare(`INSERT INTO contact_messages
		(id, name, email, subject, message, status, notification_sent, notification_email)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`)
	if err != nil {
		return models.ContactMessage{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
		msg.Status, msg.NotificationEmail)
	if err != nil {
		return models.ContactMessage{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewContact(msg); err != nil {
			log.Warn().Err(err).Str("contact_id", msg.ID).Msg("Contact notification failed")
		} else {
			if _, err := s.db.Exec("UPDATE contact_messages SET notification_sent = 1 WHERE id = ?", msg.ID); err != nil {
				log.Error().Err(err).Str("contact_id", msg.ID).Msg("Failed to record notification result")
			}
		}
	}

	return s.getByID(msg.ID)
}

// List retrieves all contact messages, newest first.
func (s *ContactService) List(callerID string) ([]models.ContactMessage, error) {
	rows, err := s.db.Query("SELECT " + contactColumns + " FROM contact_messages ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpdateStatus overwrites a message's status. Any of the three allowed
// statuses may follow any other; values outside the enum are rejected.
func (s *ContactService) UpdateStatus(id, callerID, status string) (models.ContactMessage, error) {
	if !models.ValidContactStatus(status) {
		return models.ContactMessage{}, fmt.Errorf("invalid status %q: %w", status, ErrBadRequest)
	}

	if _, err := s.getByID(id); err != nil {
		return models.ContactMessage{}, err
	}

	_, err := s.db.Exec("UPDATE contact_messages SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status, id)
	if err != nil {
		return models.ContactMessage{}, err
	}
	return s.getByID(id)
}
