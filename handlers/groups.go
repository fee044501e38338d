package handlers

import (
	"net/http"

	"littlelemon-api/config"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
)

type AssignRoleRequest struct {
	Username string `json:"username" binding:"required"`
}

// listGroupUsers returns every user holding the named role.
func listGroupUsers(c *gin.Context, groupName string) {
	var users []models.User
	config.DB.
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN `groups` ON `groups`.id = user_groups.group_id").
		Where("`groups`.name = ?", groupName).
		Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// assignGroupUser adds the named user to the group. Adding an existing
// member is a no-op success (set semantics).
func assignGroupUser(c *gin.Context, groupName string) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Groups").Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	var group models.Group
	if err := config.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	if user.HasGroup(groupName) {
		c.JSON(http.StatusOK, gin.H{"message": "User already holds role " + groupName, "user_id": user.ID})
		return
	}
	if err := config.DB.Model(&user).Association("Groups").Append(&group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User added to " + groupName, "user_id": user.ID})
}

// removeGroupUser removes the user (by id) from the group. Removing a
// non-member succeeds silently; an unknown user is 404.
func removeGroupUser(c *gin.Context, groupName string) {
	var user models.User
	if err := config.DB.Preload("Groups").First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	var group models.Group
	if err := config.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if err := config.DB.Model(&user).Association("Groups").Delete(&group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed from " + groupName, "user_id": user.ID})
}

func ListManagers(c *gin.Context)  { listGroupUsers(c, models.GroupManager) }
func AssignManager(c *gin.Context) { assignGroupUser(c, models.GroupManager) }
func RemoveManager(c *gin.Context) { removeGroupUser(c, models.GroupManager) }

func ListDeliveryCrew(c *gin.Context)   { listGroupUsers(c, models.GroupDeliveryCrew) }
func AssignDeliveryCrew(c *gin.Context) { assignGroupUser(c, models.GroupDeliveryCrew) }
func RemoveDeliveryCrew(c *gin.Context) { removeGroupUser(c, models.GroupDeliveryCrew) }
