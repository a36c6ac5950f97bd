package repository

import (
	"database/sql"
	"encoding/json"
	"postpulse/internal/model"

	"github.com/lib/pq"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) SavePost(post *model.Post) (bool, error) {
	hashtags, err := json.Marshal(post.Hashtags)
	if err != nil {
		return false, err
	}
	mentions, err := json.Marshal(post.Mentions)
	if err != nil {
		return false, err
	}

	err = r.db.QueryRow(`
		INSERT INTO linkedin_post(external_id, author, content, word_count, char_count, hashtags, mentions, posted_at,
			likes, loves, supports, celebrates, insights, comments, reposts, shares, impressions)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id
	`, post.ExternalID, post.Author, post.Content, post.WordCount, post.CharCount, hashtags, mentions, post.PostedAt,
		post.Engagement.Likes, post.Engagement.Loves, post.Engagement.Supports, post.Engagement.Celebrates,
		post.Engagement.Insights, post.Engagement.Comments, post.Engagement.Reposts, post.Engagement.Shares,
		post.Impressions).Scan(&post.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	row := r.db.QueryRow(`
		SELECT id, external_id, author, content, word_count, char_count, posted_at, scraped_at,
			likes, loves, supports, celebrates, insights, comments, reposts, shares, impressions
		FROM linkedin_post
		WHERE id = $1
	`, id)

	var p model.Post
	err := row.Scan(&p.ID, &p.ExternalID, &p.Author, &p.Content, &p.WordCount, &p.CharCount, &p.PostedAt, &p.ScrapedAt,
		&p.Engagement.Likes, &p.Engagement.Loves, &p.Engagement.Supports, &p.Engagement.Celebrates,
		&p.Engagement.Insights, &p.Engagement.Comments, &p.Engagement.Reposts, &p.Engagement.Shares, &p.Impressions)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetUnembedded returns posts that have no embedding row yet, oldest first,
// so the populator works through the backlog in a stable order.
func (r *PostRepository) GetUnembedded(limit int) ([]model.Post, error) {
	rows, err := r.db.Query(`
		SELECT p.id, p.external_id, p.author, p.content, p.word_count, p.char_count, p.posted_at, p.scraped_at,
			p.likes, p.loves, p.supports, p.celebrates, p.insights, p.comments, p.reposts, p.shares, p.impressions
		FROM linkedin_post p
		LEFT JOIN post_embedding e ON e.post_id = p.id
		WHERE e.post_id IS NULL
		ORDER BY p.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		err := rows.Scan(&p.ID, &p.ExternalID, &p.Author, &p.Content, &p.WordCount, &p.CharCount, &p.PostedAt, &p.ScrapedAt,
			&p.Engagement.Likes, &p.Engagement.Loves, &p.Engagement.Supports, &p.Engagement.Celebrates,
			&p.Engagement.Insights, &p.Engagement.Comments, &p.Engagement.Reposts, &p.Engagement.Shares, &p.Impressions)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PostRepository) GetByIDs(ids []int64) ([]model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(`
		SELECT id, external_id, author, content, word_count, char_count, posted_at, scraped_at,
			likes, loves, supports, celebrates, insights, comments, reposts, shares, impressions
		FROM linkedin_post
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		err := rows.Scan(&p.ID, &p.ExternalID, &p.Author, &p.Content, &p.WordCount, &p.CharCount, &p.PostedAt, &p.ScrapedAt,
			&p.Engagement.Likes, &p.Engagement.Loves, &p.Engagement.Supports, &p.Engagement.Celebrates,
			&p.Engagement.Insights, &p.Engagement.Comments, &p.Engagement.Reposts, &p.Engagement.Shares, &p.Impressions)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PostRepository) RefreshEngagement(id int64, e model.Engagement, impressions int) error {
	_, err := r.db.Exec(`
		UPDATE linkedin_post
		SET likes = $2, loves = $3, supports = $4, celebrates = $5, insights = $6,
			comments = $7, reposts = $8, shares = $9, impressions = $10
		WHERE id = $1
	`, id, e.Likes, e.Loves, e.Supports, e.Celebrates, e.Insights, e.Comments, e.Reposts, e.Shares, impressions)
	return err
}

func (r *PostRepository) GetPostTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM linkedin_post`).Scan(&total)
	return total, err
}
