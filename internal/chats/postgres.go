// internal/chats/postgres.go

package chats

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

// postgresRepository holds two pools: db runs with the application role so
// row-level policies apply, adminDB runs with the service role. The two may
// point at the same server with different credentials.
type postgresRepository struct {
	db      *sqlx.DB
	adminDB *sqlx.DB
}

func NewPostgresRepository(db, adminDB *sqlx.DB) Repository {
	return &postgresRepository{db: db, adminDB: adminDB}
}

const chatColumns = `id, evento_id, titulo, is_group, created_by, created_at`

// Chats

func (r *postgresRepository) GetChatByEvent(ctx context.Context, eventoID int64) (*Chat, error) {
	var chat Chat
	query := `SELECT ` + chatColumns + ` FROM chats WHERE evento_id = $1`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &chat, query, eventoID)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

func (r *postgresRepository) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	query := `SELECT ` + chatColumns + ` FROM chats WHERE id = $1`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &chat, query, chatID)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

func (r *postgresRepository) InsertChat(ctx context.Context, chat *Chat) error {
	return r.insertChat(ctx, r.db, chat)
}

func (r *postgresRepository) InsertChatElevated(ctx context.Context, chat *Chat) error {
	return r.insertChat(ctx, r.adminDB, chat)
}

func (r *postgresRepository) insertChat(ctx context.Context, db *sqlx.DB, chat *Chat) error {
	query := `
        INSERT INTO chats (id, evento_id, titulo, is_group, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `

	// Deliberately no retry wrapper here: the reconciler needs to see the
	// conflict itself to run its re-read recovery.
	err := db.QueryRowxContext(
		ctx, query,
		chat.ID, chat.EventoID, chat.Titulo, chat.IsGroup, chat.CreatedBy,
	).Scan(&chat.CreatedAt)

	return database.MapError(err)
}

func (r *postgresRepository) UpdateChatTitle(ctx context.Context, chatID, titulo string) error {
	query := `UPDATE chats SET titulo = $2 WHERE id = $1`

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, chatID, titulo)
		return err
	})
}

func (r *postgresRepository) GetDirectChat(ctx context.Context, user1ID, user2ID string) (*Chat, error) {
	var chat Chat
	query := `
        SELECT c.id, c.evento_id, c.titulo, c.is_group, c.created_by, c.created_at
        FROM chats c
        JOIN chat_members m1 ON m1.chat_id = c.id AND m1.user_id = $1
        JOIN chat_members m2 ON m2.chat_id = c.id AND m2.user_id = $2
        WHERE c.is_group = FALSE AND c.evento_id IS NULL
        LIMIT 1
    `

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &chat, query, user1ID, user2ID)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

func (r *postgresRepository) ListUserChats(ctx context.Context, userID string) ([]*ChatSummary, error) {
	var chats []*ChatSummary
	query := `
        SELECT c.id, c.titulo, c.is_group, c.evento_id,
               lm.content AS last_message,
               lm.created_at AS last_time
        FROM chats c
        JOIN chat_members m ON m.chat_id = c.id AND m.user_id = $1
        LEFT JOIN LATERAL (
            SELECT content, created_at
            FROM chat_messages
            WHERE chat_id = c.id
            ORDER BY created_at DESC
            LIMIT 1
        ) lm ON TRUE
        ORDER BY lm.created_at DESC NULLS LAST, c.created_at DESC
    `

	err := database.Retry(ctx, func() error {
		chats = chats[:0]
		return r.db.SelectContext(ctx, &chats, query, userID)
	})
	if err != nil {
		return nil, err
	}

	return chats, nil
}

// Memberships

func (r *postgresRepository) UpsertMembership(ctx context.Context, chatID, userID string) error {
	query := `
        INSERT INTO chat_members (chat_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (chat_id, user_id) DO NOTHING
    `

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, chatID, userID)
		return err
	})
}

func (r *postgresRepository) DeleteMembership(ctx context.Context, chatID, userID string) error {
	query := `DELETE FROM chat_members WHERE chat_id = $1 AND user_id = $2`

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, chatID, userID)
		return err
	})
}

func (r *postgresRepository) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM chat_members
            WHERE chat_id = $1 AND user_id = $2
        )
    `

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &exists, query, chatID, userID)
	})
	return exists, err
}

// Participations

func (r *postgresRepository) UpsertParticipation(ctx context.Context, eventoID int64, userID, status string, joinedAt time.Time) error {
	query := `
        INSERT INTO event_participants (evento_id, user_id, status, joined_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (evento_id, user_id)
        DO UPDATE SET status = $3
    `

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, eventoID, userID, status, joinedAt)
		return err
	})
}

func (r *postgresRepository) DeleteParticipation(ctx context.Context, eventoID int64, userID string) error {
	query := `DELETE FROM event_participants WHERE evento_id = $1 AND user_id = $2`

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, eventoID, userID)
		return err
	})
}

func (r *postgresRepository) ListActiveParticipants(ctx context.Context, eventoID int64) ([]string, error) {
	var userIDs []string
	query := `
        SELECT user_id FROM event_participants
        WHERE evento_id = $1 AND status = $2
        ORDER BY joined_at
    `

	err := database.Retry(ctx, func() error {
		userIDs = userIDs[:0]
		return r.db.SelectContext(ctx, &userIDs, query, eventoID, ParticipationActive)
	})
	if err != nil {
		return nil, err
	}

	return userIDs, nil
}

// Messages

func (r *postgresRepository) InsertMessage(ctx context.Context, message *Message) error {
	query := `
        INSERT INTO chat_messages (chat_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	return database.Retry(ctx, func() error {
		return r.db.QueryRowxContext(
			ctx, query,
			message.ChatID, message.UserID, message.Content,
		).Scan(&message.ID, &message.CreatedAt)
	})
}

func (r *postgresRepository) ListMessages(ctx context.Context, chatID string, limit int, before *time.Time) ([]*Message, error) {
	query := `
        SELECT m.id, m.chat_id, m.user_id, m.content, m.created_at,
               u.id AS sender_id, u.nombre AS sender_nombre, u.foto_url AS sender_foto
        FROM chat_messages m
        LEFT JOIN usuarios u ON u.id = m.user_id
        WHERE m.chat_id = $1
    `
	args := []interface{}{chatID}

	if before != nil {
		args = append(args, *before)
		query += ` AND m.created_at < $2`
	}
	args = append(args, limit)
	if before != nil {
		query += ` ORDER BY m.created_at DESC LIMIT $3`
	} else {
		query += ` ORDER BY m.created_at DESC LIMIT $2`
	}

	var messages []*Message
	err := database.Retry(ctx, func() error {
		rows, err := r.db.QueryxContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		messages = messages[:0]
		for rows.Next() {
			var msg Message
			var sender ChatUser
			var senderID *string

			err := rows.Scan(
				&msg.ID, &msg.ChatID, &msg.UserID, &msg.Content, &msg.CreatedAt,
				&senderID, &sender.Nombre, &sender.FotoURL,
			)
			if err != nil {
				return err
			}

			if senderID != nil {
				sender.ID = *senderID
				msg.Sender = &sender
			}
			messages = append(messages, &msg)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}
