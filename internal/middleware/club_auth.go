package middleware

import (
	"strconv"

	"github.com/clubhub/clubhub-api/internal/constants"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// RequireClubAccess resolves the :id parameter to a club the principal is an
// active member of. Non-members get 404 rather than 403 so club existence is
// not leaked.
func RequireClubAccess(clubRepo repository.ClubRepository, memberRepo repository.MembershipRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid club ID")
			c.Abort()
			return
		}

		user, ok := Principal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		club, err := clubRepo.FindByID(clubID)
		if err != nil || !club.IsActive {
			apierrors.NotFound(c, "Club not found")
			c.Abort()
			return
		}

		member, err := memberRepo.FindActiveWithRole(clubID, user.ID)
		if err != nil {
			apierrors.NotFound(c, "Club not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyClub, club)
		c.Set(constants.ContextKeyMember, member)
		c.Next()
	}
}

// CurrentClub retrieves the club resolved by RequireClubAccess.
func CurrentClub(c *gin.Context) (*models.Club, bool) {
	value, exists := c.Get(constants.ContextKeyClub)
	if !exists {
		return nil, false
	}
	club, ok := value.(*models.Club)
	return club, ok
}

// CurrentMember retrieves the membership resolved by RequireClubAccess.
func CurrentMember(c *gin.Context) (*models.Membership, bool) {
	value, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return nil, false
	}
	member, ok := value.(*models.Membership)
	return member, ok
}
