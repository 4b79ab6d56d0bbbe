package rabbitmq

import (
	"github.com/streadway/amqp"
)

// InitRabbitMQ 初始化RabbitMQ连接
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareQueue 创建持久化的队列，有就不用创建（幂等）
func DeclareQueue(conn *amqp.Connection, queue string) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	// 执行完毕后，这个临时的Channel就被关闭了
	defer ch.Close()
	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable: RabbitMQ服务器重启后队列本身不会消失
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}

// Publisher 往默认交换机上按队列名投递JSON消息
type Publisher struct {
	conn *amqp.Connection
}

func NewPublisher(conn *amqp.Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish 为每一个消息建立一个单独的channel，消息之间互不影响
func (p *Publisher) Publish(queue string, body []byte) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",    // exchange默认交换机
		queue, // routing key就是队列名
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化
		})
}
