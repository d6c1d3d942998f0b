package main

import (
	"fmt"
	"strconv"
	"strings"
)

type DiscordUser struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// DiscordMember is the guild member object returned by the Discord API.
type DiscordMember struct {
	User   DiscordUser `json:"user"`
	Nick   string      `json:"nick"`
	Avatar string      `json:"avatar"`
	Roles  []string    `json:"roles"`
}

func hasRequiredRole(dm DiscordMember, roleMap map[string]struct{}) bool {
	for _, i := range dm.Roles {
		if _, ok := roleMap[i]; ok {
			return true
		}
	}
	return false
}

func generateAvatarUrl(member DiscordMember, guildId string) string {
	if member.Avatar != "" {
		return fmt.Sprintf("https://cdn.discordapp.com/guilds/%s/users/%s/avatars/%s.%s?size=512", guildId, member.User.Id, member.Avatar, avatarExt(member.Avatar))
	}
	if member.User.Avatar != "" {
		return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.%s?size=512", member.User.Id, member.User.Avatar, avatarExt(member.User.Avatar))
	}
	// returns 0 on error, that's all we care about
	userId, _ := strconv.ParseInt(member.User.Id, 10, 64)
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png?size=512", (userId>>22)%6)
}

// animated avatars have an "a_" prefix
func avatarExt(hash string) string {
	if strings.HasPrefix(hash, "a_") {
		return "gif"
	}
	return "png"
}
