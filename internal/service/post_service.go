package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PostService enforces the authorization rules around blog posts: only the
// author may read, update, and delete a post through the scoped lookups, and
// a post owned by someone else surfaces as NotFound.
type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput is the payload for creating a post. The author is always
// the authenticated caller; it is never taken from the request body.
type CreatePostInput struct {
	AuthorID uint
	Title    string
	Content  string
}

// UpdatePostInput is the payload for updating a post. Nil fields are left
// unchanged on a partial update; a full update requires both.
type UpdatePostInput struct {
	AuthorID uint
	PostID   uint
	Title    *string
	Content  *string
	Partial  bool
}

// ListPostsInput carries pagination for the author-scoped listing.
type ListPostsInput struct {
	AuthorID uint
	Limit    int
	Offset   int
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.BlogPost, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()
	span.AddAttributes(attribute.Int("author.id", int(in.AuthorID)))

	if err := validation.ValidatePostTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.BlogPost{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

// ListPosts returns the caller's own posts in insertion order.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.BlogPost, error) {
	return s.postRepo.ListByAuthor(ctx, in.AuthorID, in.Limit, in.Offset)
}

// UpdatePost applies a full or partial update to a post the caller owns.
// Posts owned by other users are reported as not found.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.BlogPost, error) {
	if !in.Partial && (in.Title == nil || in.Content == nil) {
		return nil, models.NewValidationError("Title and content are required.")
	}
	if in.Partial && in.Title == nil && in.Content == nil {
		return nil, models.NewValidationError("At least one of title or content is required.")
	}

	post, err := s.postRepo.GetOwnedByID(ctx, in.PostID, in.AuthorID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := validation.ValidatePostTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if err := validation.ValidatePostContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = *in.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

// DeletePost removes a post the caller owns along with its likes.
func (s *PostService) DeletePost(ctx context.Context, postID, authorID uint) error {
	post, err := s.postRepo.GetOwnedByID(ctx, postID, authorID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// ToggleLike flips the caller's like on any existing post. The lookup is not
// author-scoped: any authenticated user may like any post.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.ToggleLike")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		span.SetError(err)
		return false, err
	}
	return liked, nil
}
