package controllers

import (
	"net/http"
	"time"

	"Meeple/middleware"
	models "Meeple/models/postgres"
	"Meeple/services/events"
	socketio_types "Meeple/services/socket_io/types"
	"Meeple/utils"

	"github.com/gin-gonic/gin"
)

func respondEventError(c *gin.Context, err error) {
	c.JSON(utils.EventErrorStatus(err), gin.H{"error": err.Error()})
}

func eventJSON(ev models.Event) gin.H {
	return gin.H{
		"event_id":         ev.ID,
		"group_id":         ev.GroupID,
		"name":             ev.Name,
		"description":      ev.Description,
		"location":         ev.Location,
		"datetime":         ev.Datetime,
		"host":             ev.Host,
		"created_at":       ev.CreatedAt,
		"game_suggestions": ev.GameSuggestions,
		"participant_ids":  ev.ParticipantIDs,
		"ratings":          ev.Ratings,
	}
}

// @Summary Creates a new event in a group
// @Description The host is assigned automatically: the member after the
// previous event's host in the group's member order, wrapping around
// @Tags events
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{event_id=string,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id}/events [post]
// @Security ApiKeyAuth
func CreateEvent(svc *events.Service, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		var req struct {
			Name        string    `json:"name"`
			Datetime    time.Time `json:"datetime"`
			Location    string    `json:"location"`
			Description string    `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		eventID, err := svc.CreateEvent(groupID, events.CreateEventInput{
			Name:        req.Name,
			Datetime:    req.Datetime,
			Location:    req.Location,
			Description: req.Description,
			CreatedBy:   userID,
		})
		if err != nil {
			respondEventError(c, err)
			return
		}

		if sio != nil && sio.Sio_server != nil {
			sio.Sio_server.To(socketio_types.GroupRoom(groupID)).Emit("event_created", gin.H{
				"group_id": groupID,
				"event_id": eventID,
				"name":     req.Name,
				"datetime": req.Datetime,
			})
		}

		c.JSON(http.StatusOK, gin.H{"event_id": eventID, "message": "Event created successfully"})
	}
}

// @Summary Lists the events of a group
// @Description Returns all events of a group ordered by datetime ascending
// @Tags events
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {array} object{event_id=string,name=string,host=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id}/events [get]
// @Security ApiKeyAuth
func GetGroupEvents(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		evs, err := svc.ListGroupEvents(c.Param("group_id"))
		if err != nil {
			respondEventError(c, err)
			return
		}

		out := make([]gin.H, len(evs))
		for i, ev := range evs {
			out[i] = eventJSON(ev)
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Lists all events across all groups
// @Description The global events feed; the client re-sorts as needed
// @Tags events
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{event_id=string,group_id=string,name=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/events [get]
// @Security ApiKeyAuth
func GetAllEvents(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		evs, err := svc.ListAllEvents()
		if err != nil {
			respondEventError(c, err)
			return
		}

		out := make([]gin.H, len(evs))
		for i, ev := range evs {
			out[i] = eventJSON(ev)
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Updates an event
// @Description Merges name, location and datetime. Host, creation time and
// participants cannot be changed through this endpoint
// @Tags events
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id} [patch]
// @Security ApiKeyAuth
func UpdateEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     *string    `json:"name"`
			Location *string    `json:"location"`
			Datetime *time.Time `json:"datetime"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		err := svc.UpdateEvent(c.Param("group_id"), c.Param("event_id"), events.UpdateEventInput{
			Name:     req.Name,
			Location: req.Location,
			Datetime: req.Datetime,
		})
		if err != nil {
			respondEventError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event updated"})
	}
}

// @Summary Deletes an event
// @Description Removes the event permanently
// @Tags events
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id} [delete]
// @Security ApiKeyAuth
func DeleteEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteEvent(c.Param("group_id"), c.Param("event_id")); err != nil {
			respondEventError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
	}
}

// @Summary Proposes a game for an event
// @Description Adds a game suggestion to an upcoming event. Names are unique
// per event, compared case-insensitively
// @Tags events
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id}/suggestions [post]
// @Security ApiKeyAuth
func SuggestGame(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		err := svc.SuggestGame(c.Param("group_id"), c.Param("event_id"), userID, req.Name, req.Description)
		if err != nil {
			respondEventError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game suggested"})
	}
}

// @Summary Votes for a suggested game
// @Description Adds the caller's vote to the named suggestion. Voting twice
// for the same game is accepted and changes nothing
// @Tags events
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id}/votes [post]
// @Security ApiKeyAuth
func VoteForGame(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		err := svc.VoteForGame(c.Param("group_id"), c.Param("event_id"), userID, req.Name)
		if err != nil {
			respondEventError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vote registered"})
	}
}

// @Summary Ranked game suggestions of an event
// @Description Returns the suggestions sorted by vote count, ties in
// proposal order
// @Tags events
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {array} object{name=string,votes=integer}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id}/suggestions [get]
// @Security ApiKeyAuth
func GetRankedSuggestions(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ranked, err := svc.RankedSuggestions(c.Param("group_id"), c.Param("event_id"))
		if err != nil {
			respondEventError(c, err)
			return
		}

		out := make([]gin.H, len(ranked))
		for i, s := range ranked {
			out[i] = gin.H{
				"name":        s.Name,
				"created_by":  s.CreatedBy,
				"created_at":  s.CreatedAt,
				"description": s.Description,
				"voter_ids":   s.VoterIDs,
				"votes":       len(s.VoterIDs),
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Rates a past event
// @Description Stores the caller's host/food/general scores (1-5) for an
// event that already took place, overwriting an earlier rating
// @Tags events
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Param event_id path string true "Id of the event"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /auth/groups/{group_id}/events/{event_id}/ratings [post]
// @Security ApiKeyAuth
func SubmitRating(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var req struct {
			Host    int `json:"host"`
			Food    int `json:"food"`
			General int `json:"general"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		err := svc.SubmitRating(c.Param("group_id"), c.Param("event_id"), userID, models.EventRating{
			Host:    req.Host,
			Food:    req.Food,
			General: req.General,
		})
		if err != nil {
			respondEventError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
	}
}
