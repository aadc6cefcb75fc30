// Copyright (c) 2025-2026 Reddit Research MCP Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package mcp implements the Model Context Protocol (MCP) server that exposes
// the Reddit research operations and the Reddit account operations as tools.
//
// The research tools (search, thread details, subreddit info, batch search and
// export) always anonymise the authors with the study salt.  The account tools
// (moderation, interaction, inbox, modmail, subscriptions, wiki) pass the
// upstream data through unchanged and require the client to be authenticated
// with a Reddit account.
//
// Every tool returns a JSON envelope with the "success" field.  Failures are
// reported as {"success": false, "error": "..."} with IsError set.
//
// Transport: the server supports two transports selectable at runtime:
//   - stdio  – standard MCP stdio transport (default); suitable for local
//     agent integration.
//   - http   – Streamable HTTP transport mounted at /mcp, with a health check
//     at /healthcheck.
package mcp
