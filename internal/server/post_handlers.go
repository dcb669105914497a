package server

import (
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/create. The author is always the
// authenticated caller; an author field in the body is ignored.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetBlogs handles GET /api/blogs. Lists only the caller's posts.
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		AuthorID: userID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// UpdateBlog handles PUT and PATCH /api/blogs/:id/edit. PUT requires both
// title and content; PATCH changes only the supplied fields. A post owned by
// another user is reported as not found.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		AuthorID: userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		Partial:  c.Method() == fiber.MethodPatch,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeleteBlog handles DELETE /api/blogs/:id/delete. Ownership-scoped: deleting
// someone else's post is indistinguishable from deleting a missing one.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/blogs/:id/like. Any authenticated user may
// toggle their like on any existing post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.UserContext(), postID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	status := "post unliked"
	result := "unliked"
	if liked {
		status = "post liked"
		result = "liked"
	}
	middleware.LikeToggles.WithLabelValues(result).Inc()

	return c.JSON(fiber.Map{
		"status": status,
	})
}
